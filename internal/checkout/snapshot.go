package checkout

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/shopspring/decimal"
)

// Stripe allows 50 metadata keys of at most 500 characters each. One key is
// the user id; the snapshot may use most of the rest.
const (
	MaxMetadataValueLen = 500
	MaxSnapshotChunks   = 40
)

// snapshotItem drops the image URL: the line items already carry it and the
// metadata has no room for it.
type snapshotItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// EncodeSnapshot returns the metadata entries holding items. The JSON goes
// under MetadataItems and continues under items_1, items_2 and so on when it
// does not fit in one value.
func EncodeSnapshot(items []domain.CartItem) (map[string]string, error) {
	compact := make([]snapshotItem, 0, len(items))
	for _, it := range items {
		compact = append(compact, snapshotItem{ID: it.ID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	raw, err := json.Marshal(compact)
	if err != nil {
		return nil, fmt.Errorf("marshal cart snapshot: %w", err)
	}

	chunks := splitRunes(string(raw), MaxMetadataValueLen)
	if len(chunks) > MaxSnapshotChunks {
		return nil, ErrCartTooLarge
	}
	md := make(map[string]string, len(chunks))
	for i, c := range chunks {
		md[snapshotKey(i)] = c
	}
	return md, nil
}

// DecodeSnapshot joins the snapshot chunks found in md and decodes the items.
func DecodeSnapshot(md map[string]string) ([]domain.CartItem, error) {
	var sb strings.Builder
	for i := 0; i < MaxSnapshotChunks; i++ {
		c, ok := md[snapshotKey(i)]
		if !ok {
			break
		}
		sb.WriteString(c)
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(sb.String()), &items); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

func snapshotKey(i int) string {
	if i == 0 {
		return MetadataItems
	}
	return fmt.Sprintf("%s_%d", MetadataItems, i)
}

// splitRunes cuts s into pieces of at most n characters without splitting a
// multi-byte character.
func splitRunes(s string, n int) []string {
	var chunks []string
	for len(s) > 0 {
		end, count := 0, 0
		for end < len(s) && count < n {
			_, size := utf8.DecodeRuneInString(s[end:])
			end += size
			count++
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}
