package repository

// Keys kept by the dashboard; one JSON document each.
const (
	KeyFarmData = "micampo_farm_data"
	KeyUsers    = "micampo_users"
	KeySession  = "micampo_user"
)

// KVRepository is the durable key-value store behind the farm and auth stores.
type KVRepository interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
}
