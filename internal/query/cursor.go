// internal/query/cursor.go
package query

import (
	"encoding/base64"
	"encoding/json"
	"time"

	commonerrors "marketplace-admin/internal/common/errors"
)

// Cursor is the keyset position of the last record of a page. Callers
// treat the encoded form as an opaque token: they hand it back verbatim
// on "load more" and never look inside.
type Cursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

// EncodeCursor serializes a cursor into its opaque wire form.
func EncodeCursor(c Cursor) string {
	data, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor parses an opaque token. An empty token means "start from
// the beginning" and yields a nil cursor. A token that does not decode is
// rejected with a BAD_CURSOR error rather than silently ignored.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, commonerrors.NewBadCursorError(err.Error())
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, commonerrors.NewBadCursorError(err.Error())
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		return nil, commonerrors.NewBadCursorError("cursor missing position fields")
	}

	return &c, nil
}
