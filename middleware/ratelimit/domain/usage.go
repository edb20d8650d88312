package domain

// Window é o uso de uma janela de cota.
type Window struct {
	Used      uint64 `json:"used"`
	Limit     uint64 `json:"limit"`
	Remaining uint64 `json:"remaining"`
}

// NewWindow calcula Remaining saturando em zero (Used pode passar de Limit
// quando requisições concorrentes passam juntas pelo check).
func NewWindow(used, limit uint64) Window {
	w := Window{Used: used, Limit: limit}
	if used < limit {
		w.Remaining = limit - used
	}
	return w
}

// UsageSnapshot é o relatório de cota exposto ao cliente.
type UsageSnapshot struct {
	GlobalDaily Window `json:"global_daily"`
	ToolDaily   Window `json:"tool_daily"`
	ToolMinute  Window `json:"tool_minute"`
	Banned      bool   `json:"banned"`
}
