// Package niberr collects the sentinel errors shared across the WAD
// container engine, grouped by subsystem the way pkg/psp/errors does
// in the teacher project.
package niberr

import "errors"

var (
	// Signed blob / certificate chain 📜
	ErrUnknownSignatureKind = errors.New("niiebla: unknown signature kind")
	ErrUnknownKeyKind       = errors.New("niiebla: unknown certificate key-value kind")

	// Ticket 🎫
	ErrUnknownCommonKeyIndex    = errors.New("niiebla: unknown common key index")
	ErrUnknownTicketVersion     = errors.New("niiebla: unknown ticket format version")
	ErrInvalidLicenseKind       = errors.New("niiebla: invalid license kind identifier")
	ErrUnknownLimitEntryType    = errors.New("niiebla: unknown limit entry type")
	ErrInvalidTitleExportFlag   = errors.New("niiebla: invalid title export flag")

	// Title metadata 📦
	ErrUnknownPlatform           = errors.New("niiebla: unknown title metadata platform tag")
	ErrUnknownWiiRegion          = errors.New("niiebla: unknown Wii region")
	ErrUnknownContentEntryKind   = errors.New("niiebla: unknown content chunk entry kind")
	ErrActionInvalid             = errors.New("niiebla: action invalid for this platform")
	ErrNotAWiiTitle              = errors.New("niiebla: title metadata is not a Wii title")
	ErrInvalidVWiiFlag           = errors.New("niiebla: invalid vWii-only flag value")
	ErrUnsupportedTMDVersion     = errors.New("niiebla: unsupported title metadata format version")

	// WAD engine 💿
	ErrInvalidMagic              = errors.New("niiebla: invalid installable WAD magic")
	ErrContentNotFound           = errors.New("niiebla: content not found")
	ErrModifyContentMissingField = errors.New("niiebla: content edit missing required field")

	// Cryptography 🔐
	ErrDecryptFailed = errors.New("niiebla: decryption failed")
)

// ModifyContentMissingSetting reports which named field a content
// editor operation required but did not receive.
type ModifyContentMissingSetting struct {
	Name string
}

func (e *ModifyContentMissingSetting) Error() string {
	return "niiebla: content edit missing required setting: " + e.Name
}

func (e *ModifyContentMissingSetting) Unwrap() error {
	return ErrModifyContentMissingField
}
