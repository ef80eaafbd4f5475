package service

// QRCodeService defines the interface for generating and parsing the
// QR payloads exchanged between stores and the app: challenge-clear
// codes and stamp-card codes.
type QRCodeService interface {
	// GenerateChallengeQR renders a PNG QR code for a challenge.
	GenerateChallengeQR(challengeID string) ([]byte, error)

	// ParseChallengeQR extracts the challenge id from scanned QR data.
	ParseChallengeQR(qrData string) (string, error)

	// GenerateStampQR renders a PNG QR code for a store's stamp card.
	GenerateStampQR(storeQR string) ([]byte, error)

	// ParseStampQR extracts the store code from scanned QR data.
	ParseStampQR(qrData string) (string, error)
}
