package utils

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/speps/go-hashids/v2"
)

func PanicTrace(err interface{}) string {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "%v\n", err)
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fmt.Fprintf(buf, "%s:%d (0x%x)\n", file, line, pc)
	}
	return buf.String()
}

// HashID 把数据库 id 编码成给管理员看的短码（APPROVE_ID <code>）
type HashID struct {
	h *hashids.HashID
}

func NewHashID(salt string) (*HashID, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, err
	}
	return &HashID{h: h}, nil
}

func (h *HashID) Encode(id int64) string {
	e, _ := h.h.EncodeInt64([]int64{id})
	return e
}

func (h *HashID) Decode(code string) (int64, error) {
	ids, err := h.h.DecodeInt64WithError(code)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("invalid code %q", code)
	}
	return ids[0], nil
}
