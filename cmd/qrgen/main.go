package main

import (
	"flag"
	"fmt"
	"os"

	"ciquest/internal/infra/qrcode"
)

// Supported subcommands:
// - challenge: Generate a challenge-clear QR code PNG
// - stamp:     Generate a store stamp-card QR code PNG

func main() {
	// Subcommand definitions
	challengeCmd := flag.NewFlagSet("challenge", flag.ExitOnError)
	stampCmd := flag.NewFlagSet("stamp", flag.ExitOnError)

	// challenge parameters
	challengeID := challengeCmd.String("id", "", "Challenge identifier (required)")
	challengeOutput := challengeCmd.String("output", "challenge.png", "Output PNG path")
	challengeSize := challengeCmd.Int("size", 256, "Image size in pixels")
	challengeLevel := challengeCmd.String("level", "M", "Error correction level (L, M, Q, H)")

	// stamp parameters
	stampStoreQR := stampCmd.String("store-qr", "", "Store QR code value (required)")
	stampOutput := stampCmd.String("output", "stamp.png", "Output PNG path")
	stampSize := stampCmd.Int("size", 256, "Image size in pixels")
	stampLevel := stampCmd.String("level", "M", "Error correction level (L, M, Q, H)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "challenge":
		challengeCmd.Parse(os.Args[2:])
		if *challengeID == "" {
			challengeCmd.Usage()
			os.Exit(1)
		}
		svc := qrcode.NewQRCodeService(*challengeSize, *challengeLevel)
		err = writePNG(*challengeOutput, func() ([]byte, error) {
			return svc.GenerateChallengeQR(*challengeID)
		})

	case "stamp":
		stampCmd.Parse(os.Args[2:])
		if *stampStoreQR == "" {
			stampCmd.Usage()
			os.Exit(1)
		}
		svc := qrcode.NewQRCodeService(*stampSize, *stampLevel)
		err = writePNG(*stampOutput, func() ([]byte, error) {
			return svc.GenerateStampQR(*stampStoreQR)
		})

	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func writePNG(path string, generate func() ([]byte, error)) error {
	pngBytes, err := generate()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, pngBytes, 0o644); err != nil {
		return err
	}

	fmt.Println("Wrote", path)

	return nil
}

func printUsage() {
	fmt.Println("Usage: qrgen <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  challenge   Generate a challenge-clear QR code PNG")
	fmt.Println("  stamp       Generate a store stamp-card QR code PNG")
	fmt.Println()
	fmt.Println("Run 'qrgen <command> -h' for command options.")
}
