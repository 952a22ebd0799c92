package litefs

import "strings"

// encodePath implements §4.G: split a logical path on "/", drop empty
// components (collapsing repeated separators and a leading/trailing
// slash), encode every component except "." and ".." through codec, and
// rejoin with "/". An empty logical path maps to the root.
func encodePath(codec *NameCodec, logical string) (string, error) {
	parts := strings.Split(logical, "/")
	encoded := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if p == "." || p == ".." {
			encoded = append(encoded, p)
			continue
		}
		enc, err := codec.EncodeComponent(p)
		if err != nil {
			return "", err
		}
		encoded = append(encoded, enc)
	}
	if len(encoded) == 0 {
		return "/", nil
	}
	return "/" + strings.Join(encoded, "/"), nil
}

// decodePath reverses encodePath component by component, for diagnostics
// and Facade.Getwd; §4.I's readdir path never needs this since it decodes
// individual host entry names directly.
func decodePath(codec *NameCodec, encoded string) (string, error) {
	parts := strings.Split(encoded, "/")
	decoded := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if p == "." || p == ".." {
			decoded = append(decoded, p)
			continue
		}
		dec, err := codec.DecodeComponent(p)
		if err != nil {
			return "", err
		}
		decoded = append(decoded, dec)
	}
	if len(decoded) == 0 {
		return "/", nil
	}
	return "/" + strings.Join(decoded, "/"), nil
}
