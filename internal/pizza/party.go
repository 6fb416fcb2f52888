package pizza

import (
	"strings"

	httperrors "github.com/gokatarajesh/slicetomeetyou/pkg/http/errors"
)

const partyIDLength = 4

// MsgInvalidPartyID is shown for any malformed party ID.
const MsgInvalidPartyID = "Party ID must be exactly 4 characters (letters and numbers)"

// NormalizePartyID validates a party ID and returns it upper-cased. Anything
// other than exactly four ASCII letters or digits is rejected.
func NormalizePartyID(raw string) (string, error) {
	if len(raw) != partyIDLength {
		return "", invalidPartyID()
	}
	for i := 0; i < len(raw); i++ {
		if !isAlnum(raw[i]) {
			return "", invalidPartyID()
		}
	}
	return strings.ToUpper(raw), nil
}

// PartyIDFromPath reads a party ID from a URL path of the form /XXXX. The
// boolean is false when the path does not carry a valid ID.
func PartyIDFromPath(path string) (string, bool) {
	seg := strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/")
	if strings.Contains(seg, "/") {
		return "", false
	}
	id, err := NormalizePartyID(seg)
	if err != nil {
		return "", false
	}
	return id, true
}

// ShareURL builds the public link for a party.
func ShareURL(baseURL, partyID string) (string, error) {
	id, err := NormalizePartyID(partyID)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(baseURL, "/") + "/" + id, nil
}

func invalidPartyID() error {
	return httperrors.Validation(httperrors.ErrCodeInvalidPartyID, "partyNumber", MsgInvalidPartyID)
}

func isAlnum(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
