package tlsprofile

import (
	utls "github.com/refraction-networking/utls"
)

// JA3 hashes match the corresponding utls ClientHello specs; they are what a
// passive fingerprinting device on the wire would record.
func defaultProfiles() map[string]Profile {
	return map[string]Profile{
		"chrome_latest": {
			Name:        "chrome_latest",
			JA3Hash:     "b32309a26951912be7dba376398abc3b",
			MinVersion:  "1.2",
			ALPN:        []string{"h2", "http/1.1"},
			clientHello: utls.HelloChrome_120,
		},
		"firefox_standard": {
			Name:        "firefox_standard",
			JA3Hash:     "aa56c057389e0c3b2c0d6d3e3e97e50d",
			MinVersion:  "1.2",
			ALPN:        []string{"h2", "http/1.1"},
			clientHello: utls.HelloFirefox_120,
		},
	}
}
