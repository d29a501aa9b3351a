package layout

import (
	"encoding/json"
	"os"
)

type debugDump struct {
	Generation uint64   `json:"generation"`
	Request    *Request `json:"request"`
	Result     Result   `json:"result,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// WriteDebugJSON 将布局请求与结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(req *Request, resp Response, path string) error {
	if req == nil {
		return nil
	}
	dump := debugDump{Generation: resp.Generation, Request: req, Result: resp.Result}
	if resp.Err != nil {
		dump.Error = resp.Err.Error()
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
