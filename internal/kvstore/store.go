package kvstore

// Store is the ephemeral key-value persistence boundary the session and
// cart stores write through. It mirrors browser-local storage semantics:
// reads never fail, a missing key is simply absent, and each Set replaces
// the whole value for the key.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}
