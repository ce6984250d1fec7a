package repositories

// getList reads a JSON array key. An absent key is an empty list.
func getList[T any](ex Executor, key string) ([]T, error) {
	var out []T
	if _, err := ex.Get(key, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
