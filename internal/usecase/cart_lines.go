package usecase

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// トップレベルが配列でない
var ErrMalformedCart = errors.New("malformed cart")

// order_items.note の列幅（文字数）
const MaxNoteLength = 500

// クライアントが持っているカートの1行。保存しない。
type CartLine struct {
	ProductID int64
	Note      string
}

// DecodeCartLines は [{ "id": 1, "note": "..." }, ...] を読む。
// 壊れた要素は読み飛ばし、配列でないときだけ ErrMalformedCart を返す。
func DecodeCartLines(raw []byte) ([]CartLine, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, ErrMalformedCart
	}
	if entries == nil {
		// JSON null
		return nil, ErrMalformedCart
	}

	lines := make([]CartLine, 0, len(entries))
	for _, e := range entries {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(e, &obj); err != nil || obj == nil {
			continue
		}

		id, ok := parseProductID(obj["id"])
		if !ok {
			continue
		}

		var note string
		if rawNote, has := obj["note"]; has {
			if err := json.Unmarshal(rawNote, &note); err != nil {
				note = ""
			}
		}

		lines = append(lines, CartLine{ProductID: id, Note: note})
	}
	return lines, nil
}

// 整数か、数字だけの文字列を受け付ける
func parseProductID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
	} else {
		s = string(raw)
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
