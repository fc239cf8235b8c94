package compare

import (
	"encoding/json"
)

// JSONFormatter serializes the whole comparison set.
type JSONFormatter struct {
	Pretty bool
}

func (jf *JSONFormatter) Name() string { return "json" }

// Format generates JSON output for a comparison.
func (jf *JSONFormatter) Format(set *ComparisonSet) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(set, "", "  ")
	} else {
		data, err = json.Marshal(set)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
