package stage

import (
	"hirepath/internal/common"
)

type Stage struct {
	ID      common.UUID `json:"id"`
	Name    string      `json:"name"`
	Order   int         `json:"order"`
	Color   string      `json:"color"`
	IsFinal bool        `json:"is_final"`
}
