package util

import "encoding/json"

func Serialize(v any) (json.RawMessage, error) {
	return json.Marshal(v)
}
