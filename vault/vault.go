package vault

// Keys used by the portal in local persisted storage. These mirror the
// browser's localStorage entries so the backend contract stays identical.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Vault is a small persisted key/value store for tokens and the cached
// identity. Get returns ("", false) when the key is absent.
type Vault interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}
