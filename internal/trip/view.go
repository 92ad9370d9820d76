package trip

import (
	"encoding/json"
	"strconv"

	"github.com/hitoshi/tripman/internal/model"
)

// EntryView は旅程エントリのAPI表現。
type EntryView struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Completed   bool   `json:"completed"`
	DayIndex    int    `json:"day_index"`
}

// View は旅行のAPI表現（フラットモード）。entries は格納順のエントリ列。
type View struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Location    *string     `json:"location"`
	Start       *int64      `json:"start"`
	ImageURL    *string     `json:"image_url"`
	ImageCredit *string     `json:"image_credit"`
	Entries     []EntryView `json:"entries"`
}

// GroupedView は旅行のAPI表現（日別モード）。days はday_indexをキーとし、
// 各日につき1件のエントリのみを持つ。同じ日に複数のエントリがある場合は
// 格納順で最後のエントリが残る。
type GroupedView struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Location    *string              `json:"location"`
	Start       *int64               `json:"start"`
	ImageURL    *string              `json:"image_url"`
	ImageCredit *string              `json:"image_credit"`
	Days        map[string]EntryView `json:"days"`
}

// NewView はフラットモードのビューを構築する。
func NewView(trip *model.Trip, entries []*model.Entry) View {
	imageURL, imageCredit := imageFields(trip.ImageData)
	views := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, newEntryView(entry))
	}
	return View{
		ID:          trip.ID,
		Name:        trip.Name,
		Location:    trip.Location,
		Start:       trip.Start,
		ImageURL:    imageURL,
		ImageCredit: imageCredit,
		Entries:     views,
	}
}

// NewGroupedView は日別モードのビューを構築する。
func NewGroupedView(trip *model.Trip, entries []*model.Entry) GroupedView {
	imageURL, imageCredit := imageFields(trip.ImageData)
	days := make(map[string]EntryView, len(entries))
	for _, entry := range entries {
		days[strconv.Itoa(entry.DayIndex)] = newEntryView(entry)
	}
	return GroupedView{
		ID:          trip.ID,
		Name:        trip.Name,
		Location:    trip.Location,
		Start:       trip.Start,
		ImageURL:    imageURL,
		ImageCredit: imageCredit,
		Days:        days,
	}
}

func newEntryView(entry *model.Entry) EntryView {
	return EntryView{
		ID:          entry.ID,
		Description: entry.Description,
		Kind:        entry.Kind,
		Completed:   entry.Completed,
		DayIndex:    entry.DayIndex,
	}
}

// imageFields はキャッシュされた画像検索結果からimage_urlとimage_creditを
// 取り出す。blobがnil・不正なJSON・期待するフィールドを欠く場合は
// 両方ともnilになり、決して片方だけが設定されることはない。
func imageFields(blob []byte) (*string, *string) {
	if len(blob) == 0 {
		return nil, nil
	}
	var parsed struct {
		URLs struct {
			Regular *string `json:"regular"`
		} `json:"urls"`
		User struct {
			Name *string `json:"name"`
		} `json:"user"`
	}
	if err := json.Unmarshal(blob, &parsed); err != nil {
		return nil, nil
	}
	if parsed.URLs.Regular == nil || parsed.User.Name == nil {
		return nil, nil
	}
	return parsed.URLs.Regular, parsed.User.Name
}
