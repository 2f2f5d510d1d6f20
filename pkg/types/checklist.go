package types

import "strings"

// Item kinds and peripheral kinds reported by the checklist API.
const (
	ItemTypeText = "TEXT"

	PeripheralTemperatureProbe = "TEMPERATURE_PROBE"
	PeripheralSensor           = "SENSOR"
)

// Capture sources derived from the peripheral that produced a numeric answer.
const (
	SourceManual = "manual"
	SourceProbe  = "probe"
	SourceSensor = "sensor"
)

// Location is one store as listed by the checklist API.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListInstance is one occurrence of a recurring checklist at a location.
type ListInstance struct {
	ID                string        `json:"id"`
	DisplayTimestamp  int64         `json:"displayTimestamp,omitempty"`
	DeadlineTimestamp int64         `json:"deadlineTimestamp,omitempty"`
	IncompleteCount   int           `json:"incompleteCount"`
	IsActive          bool          `json:"isActive,omitempty"`
	InstanceTitle     string        `json:"instanceTitle,omitempty"`
	Score             *float64      `json:"score,omitempty"`
	MaxPossibleScore  *float64      `json:"maxPossibleScore,omitempty"`
	ListTemplate      *ListTemplate `json:"listTemplate,omitempty"`
	ItemResults       []ItemResult  `json:"itemResults,omitempty"`
}

// ListTemplate carries the template metadata of a list instance.
type ListTemplate struct {
	Title string `json:"title"`
}

// Title returns the template title, falling back to the instance title.
func (l *ListInstance) Title() string {
	if l.ListTemplate != nil && l.ListTemplate.Title != "" {
		return l.ListTemplate.Title
	}
	return l.InstanceTitle
}

// ItemResult is one node of a checklist result tree. A node may carry a
// nested SubList with the same shape, to any depth.
type ItemResult struct {
	ID                  string             `json:"id"`
	Type                string             `json:"type,omitempty"`
	ResultValue         string             `json:"resultValue,omitempty"`
	ResultText          string             `json:"resultText,omitempty"`
	ResultDouble        *float64           `json:"resultDouble,omitempty"`
	IsMarkedNA          bool               `json:"isMarkedNA,omitempty"`
	CompletionTimestamp int64              `json:"completionTimestamp,omitempty"`
	ItemTemplate        *ItemTemplate      `json:"itemTemplate,omitempty"`
	Peripheral          *Peripheral        `json:"peripheral,omitempty"`
	CorrectiveActions   []CorrectiveAction `json:"correctiveActions,omitempty"`
	Notes               []Note             `json:"notes,omitempty"`
	ResultAssets        []Asset            `json:"resultAssets,omitempty"`
	ResultCompanyFiles  []CompanyFile      `json:"resultCompanyFiles,omitempty"`
	SubList             *SubList           `json:"subList,omitempty"`
}

// ItemTemplate is the template side of an item: its prompt and kind.
type ItemTemplate struct {
	Text              string `json:"text,omitempty"`
	Type              string `json:"type,omitempty"`
	IsScoringItemType bool   `json:"isScoringItemType,omitempty"`
	IsRequired        bool   `json:"isRequired,omitempty"`
}

// Peripheral identifies the capture device used for an answer.
type Peripheral struct {
	Type string `json:"type"`
}

// CorrectiveAction is a logged remediation record.
type CorrectiveAction struct {
	ID string `json:"id"`
}

// Note is a free-text note attached to an item.
type Note struct {
	Body string `json:"body"`
}

// Asset is a photo or file attached to an item result.
type Asset struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// CompanyFile is a company-level file referenced by an item result.
type CompanyFile struct {
	FileURI string `json:"fileURI"`
}

// SubList is a nested checklist embedded in a parent item.
type SubList struct {
	ID            string       `json:"id,omitempty"`
	InstanceTitle string       `json:"instanceTitle,omitempty"`
	ItemResults   []ItemResult `json:"itemResults,omitempty"`
}

// Prompt returns the template text, or "" when the item has no template.
func (it *ItemResult) Prompt() string {
	if it.ItemTemplate == nil {
		return ""
	}
	return it.ItemTemplate.Text
}

// IsText reports whether the item is an informational TEXT row. Either the
// result kind or the template kind may mark it.
func (it *ItemResult) IsText() bool {
	if strings.EqualFold(it.Type, ItemTypeText) {
		return true
	}
	return it.ItemTemplate != nil && strings.EqualFold(it.ItemTemplate.Type, ItemTypeText)
}

// Children returns the items of the nested sublist, or nil.
func (it *ItemResult) Children() []ItemResult {
	if it.SubList == nil {
		return nil
	}
	return it.SubList.ItemResults
}

// HasValue reports whether the item carries any answer: text, a number or
// an explicit N/A.
func (it *ItemResult) HasValue() bool {
	return it.ResultValue != "" || it.ResultDouble != nil || it.IsMarkedNA
}

// HasCorrectiveAction reports whether a corrective action was logged.
func (it *ItemResult) HasCorrectiveAction() bool {
	return len(it.CorrectiveActions) > 0
}

// CaptureSource classifies where a numeric answer came from.
func (it *ItemResult) CaptureSource() string {
	if it.Peripheral == nil {
		return SourceManual
	}
	switch it.Peripheral.Type {
	case PeripheralTemperatureProbe:
		return SourceProbe
	case PeripheralSensor:
		return SourceSensor
	default:
		return SourceManual
	}
}
