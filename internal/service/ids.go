package service

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Identifiers for copied entities: a fixed prefix followed by 12 hex digits
// taken from the random part of a UUIDv4.

func newDtuID() string {
	return "DTU_" + randomHex()
}

func newSerialNumber() string {
	return "SN" + strings.ToUpper(randomHex())
}

func newSensorID() string {
	return "S_" + randomHex()
}

func randomHex() string {
	id := uuid.New()
	return hex.EncodeToString(id[:6])
}
