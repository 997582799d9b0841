package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, false)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v, false)
}

// DecodeJSON 使用統一設定解析 JSON
func DecodeJSON(r io.Reader, v interface{}) error {
	return decodeJSON(r, v, false)
}

func decodeJSON(r io.Reader, v interface{}, disallowUnknown bool) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		// 若讀到額外 token，視為錯誤
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

var unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// ExtractJSONObject 從生成式模型輸出中擷取 JSON 物件：
// 去掉 ```json ... ``` 包裹，再取第一個 { 到最後一個 }。
func ExtractJSONObject(raw string) string {
	txt := strings.TrimSpace(raw)
	txt = strings.TrimPrefix(txt, "```json")
	txt = strings.TrimPrefix(txt, "```")
	txt = strings.TrimSuffix(txt, "```")
	txt = strings.TrimSpace(txt)
	if start, end := strings.Index(txt, "{"), strings.LastIndex(txt, "}"); start != -1 && end != -1 && end > start {
		txt = txt[start : end+1]
	}
	return txt
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FlexNumber 寬鬆數值：上游同一欄位有時是數字、有時是字串（甚至空字串）。
// 解析失敗一律視為 0，不阻塞整筆紀錄。
type FlexNumber float64

// UnmarshalJSON 實現 json.Unmarshaler 介面
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	var f float64
	if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
		*n = 0
		return nil
	}
	*n = FlexNumber(f)
	return nil
}

// Float 回傳 float64 值
func (n FlexNumber) Float() float64 {
	return float64(n)
}

// FlexString 寬鬆字串：接受字串或數字形態的識別碼
type FlexString string

// UnmarshalJSON 實現 json.Unmarshaler 介面
func (s *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = ""
		return nil
	}
	*s = FlexString(strings.Trim(raw, `"`))
	return nil
}

// String 回傳字串值
func (s FlexString) String() string {
	return string(s)
}

// FlexStringList 寬鬆字串清單：上游的 ingredients 欄位有時是
// 逗號分隔字串、有時是字串陣列。
type FlexStringList []string

// UnmarshalJSON 實現 json.Unmarshaler 介面
func (l *FlexStringList) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			*l = nil
			return nil
		}
		*l = items
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		*l = nil
		return nil
	}
	var items []string
	for _, part := range strings.Split(joined, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	*l = items
	return nil
}
