package transfer

import "time"

// ApiKeyInfo carries a masked key for listings. The full secret is
// only ever returned once, at creation.
type ApiKeyInfo struct {
	ID        int64     `json:"id"`
	ApiKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}
