package qrcode

import (
	"encoding/json"
	"fmt"

	"ciquest/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	ChallengeID string `json:"challenge_id,omitempty"`
	StoreQR     string `json:"store_qr,omitempty"`
	Type        string `json:"type"`
}

// QR payload types.
const (
	typeChallenge = "challenge"
	typeStamp     = "stamp"
)

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateChallengeQR generates a QR code for a challenge-clear code
func (s *qrcodeService) GenerateChallengeQR(challengeID string) ([]byte, error) {
	if challengeID == "" {
		return nil, fmt.Errorf("challenge id is required")
	}

	return s.render(QRCodeData{
		ChallengeID: challengeID,
		Type:        typeChallenge,
	})
}

// ParseChallengeQR parses QR code data and returns the challenge ID
func (s *qrcodeService) ParseChallengeQR(qrData string) (string, error) {
	data, err := parse(qrData, typeChallenge)
	if err != nil {
		return "", err
	}
	if data.ChallengeID == "" {
		return "", fmt.Errorf("QR code carries no challenge id")
	}

	return data.ChallengeID, nil
}

// GenerateStampQR generates a QR code for a store's stamp card
func (s *qrcodeService) GenerateStampQR(storeQR string) ([]byte, error) {
	if storeQR == "" {
		return nil, fmt.Errorf("store code is required")
	}

	return s.render(QRCodeData{
		StoreQR: storeQR,
		Type:    typeStamp,
	})
}

// ParseStampQR parses QR code data and returns the store code
func (s *qrcodeService) ParseStampQR(qrData string) (string, error) {
	data, err := parse(qrData, typeStamp)
	if err != nil {
		return "", err
	}
	if data.StoreQR == "" {
		return "", fmt.Errorf("QR code carries no store code")
	}

	return data.StoreQR, nil
}

func (s *qrcodeService) render(data QRCodeData) ([]byte, error) {
	// Convert to JSON
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	// Generate QR code
	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	// Generate PNG image
	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

func parse(qrData, wantType string) (QRCodeData, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return QRCodeData{}, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	// Validate type
	if data.Type != wantType {
		return QRCodeData{}, fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	return data, nil
}
