package trip

// ContentPayload は旅行の内容を丸ごと置き換えるリクエストボディを表す。
// Name が空または未指定の場合はデフォルト名が使われる。Start は検証なしで
// そのまま反映される。Location が非空で指定された場合のみ更新される。
type ContentPayload struct {
	Name     *string        `json:"name"`
	Start    *int64         `json:"start"`
	Location *string        `json:"location"`
	Entries  []EntryPayload `json:"entries"`
}

// EntryPayload は旅程エントリの入力を表す。description・kind・day_index は
// 必須で、欠落はバリデーションエラーになる。completed は入力値にかかわらず
// 常に false で初期化されるため受け付けない。
type EntryPayload struct {
	Description *string `json:"description"`
	Kind        *string `json:"kind"`
	DayIndex    *int    `json:"day_index"`
}
