package cli

import (
	"context"
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"
)

// writeQRCode is a test seam for qrcode.WriteFile.
var writeQRCode = qrcode.WriteFile

// EnableTwoFactor starts two-factor enrollment: the otpauth URI is rendered
// as a QR code PNG next to the binary for scanning with an authenticator
// app, and the one-time backup codes are printed.
func (a *App) EnableTwoFactor(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	enrollment, err := a.controller.Enable2FA(ctx)
	if err != nil {
		fmt.Println("Could not enable two-factor auth:", err)
		return err
	}

	const qrFile = "chainview-2fa.png"
	if err := writeQRCode(enrollment.QRCode, qrcode.Medium, 256, qrFile); err != nil {
		// The URI still works without the image.
		fmt.Println("Could not write QR code image:", err)
		fmt.Println("Enrollment URI:", enrollment.QRCode)
	} else {
		_ = os.Chmod(qrFile, 0o600)
		fmt.Println("Scan", qrFile, "with your authenticator app.")
	}

	if len(enrollment.BackupCodes) > 0 {
		fmt.Println("Backup codes (store them somewhere safe):")
		for _, code := range enrollment.BackupCodes {
			fmt.Println(" ", code)
		}
	}

	return nil
}

// DisableTwoFactor turns two-factor auth off, authorized by a current code.
func (a *App) DisableTwoFactor(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	code, err := getSimpleText(a.reader, "Enter current two-factor code", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.controller.Disable2FA(ctx, code); err != nil {
		fmt.Println("Could not disable two-factor auth:", err)
		return err
	}
	fmt.Println("Two-factor auth disabled.")
	return nil
}
