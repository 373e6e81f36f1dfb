package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered UUID. Used for primary keys and trace
// ids so that index and log order follow creation order.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
