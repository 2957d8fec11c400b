// Package model defines the data structures shared by the resolve and load stages.
package model

import "strings"

// SyntheticScheme prefixes every synthetic address in its wire form.
const SyntheticScheme = "mock:"

// KeySeparator joins the importer and import keys in the wire form.
const KeySeparator = ","

// Format is the module-format hint attached to an address.
type Format string

const (
	// FormatModule marks standard (ESM) module source.
	FormatModule Format = "module"
	// FormatCommonJS marks CommonJS source.
	FormatCommonJS Format = "commonjs"
	// FormatJSON marks a JSON module.
	FormatJSON Format = "json"
	// FormatBuiltin marks a module provided by the host itself.
	FormatBuiltin Format = "builtin"
)

// Address identifies a module. It is either a RealAddress produced by the
// host resolver or a SyntheticAddress produced by the resolve stage.
type Address interface {
	// String returns the wire form of the address.
	String() string
	// ModuleFormat returns the format hint carried by the address, if any.
	ModuleFormat() Format

	isAddress()
}

// RealAddress is an address computed by the host's real resolver. Apart
// from suffix matching on URL it is treated as opaque.
type RealAddress struct {
	URL    string
	Format Format
}

func (a RealAddress) String() string { return a.URL }

// ModuleFormat implements Address.
func (a RealAddress) ModuleFormat() Format { return a.Format }

func (RealAddress) isAddress() {}

// SyntheticAddress tells the load stage to serve the replacement
// registered for (Importer, Import). Format is an in-process hint only and
// is limited to the source formats (see ReplacementFormat).
type SyntheticAddress struct {
	Importer ImporterKey
	Import   ImportKey
	Format   Format
}

// String encodes the address as "mock:<importer>,<import>". Separator and
// escape characters inside keys are percent-escaped so decoding is exact.
// Format is not part of the wire form: ParseAddress restores the keys but
// always yields FormatModule, so a commonjs hint survives only in-process.
func (a SyntheticAddress) String() string {
	return SyntheticScheme + escapeKey(string(a.Importer)) + KeySeparator + escapeKey(string(a.Import))
}

// ModuleFormat implements Address.
func (a SyntheticAddress) ModuleFormat() Format { return a.Format }

func (SyntheticAddress) isAddress() {}

// ReplacementFormat returns the format hint for a replacement standing in
// for a target of the given format. Replacements are script source, so only
// module and commonjs carry over; builtin, json and empty become module.
func ReplacementFormat(target Format) Format {
	switch target {
	case FormatModule, FormatCommonJS:
		return target
	default:
		return FormatModule
	}
}

// IsSynthetic reports whether addr is a SyntheticAddress.
func IsSynthetic(addr Address) bool {
	_, ok := addr.(SyntheticAddress)
	return ok
}

// ParseAddress decodes a wire-form address. Strings without the synthetic
// scheme become a RealAddress with no format hint. Synthetic strings carry
// no hint on the wire and decode with FormatModule. A synthetic string that
// does not split into exactly two non-empty keys is a ConfigurationError.
func ParseAddress(raw string) (Address, error) {
	rest, ok := strings.CutPrefix(raw, SyntheticScheme)
	if !ok {
		return RealAddress{URL: raw}, nil
	}

	parts := strings.Split(rest, KeySeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, NewConfigurationError(raw, "expected two non-empty keys separated by "+KeySeparator)
	}

	importer, err := unescapeKey(parts[0])
	if err != nil {
		return nil, NewConfigurationError(raw, err.Error())
	}

	imported, err := unescapeKey(parts[1])
	if err != nil {
		return nil, NewConfigurationError(raw, err.Error())
	}

	return SyntheticAddress{
		Importer: ImporterKey(importer),
		Import:   ImportKey(imported),
		Format:   FormatModule,
	}, nil
}

var keyEscaper = strings.NewReplacer("%", "%25", ",", "%2C")

func escapeKey(key string) string {
	if !strings.ContainsAny(key, "%,") {
		return key
	}

	return keyEscaper.Replace(key)
}

func unescapeKey(key string) (string, error) {
	if !strings.Contains(key, "%") {
		return key, nil
	}

	var b strings.Builder

	b.Grow(len(key))

	for i := 0; i < len(key); i++ {
		if key[i] != '%' {
			b.WriteByte(key[i])
			continue
		}

		switch {
		case strings.HasPrefix(key[i:], "%25"):
			b.WriteByte('%')
		case strings.HasPrefix(key[i:], "%2C"), strings.HasPrefix(key[i:], "%2c"):
			b.WriteByte(',')
		default:
			return "", errInvalidEscape(key)
		}

		i += 2
	}

	return b.String(), nil
}
