package model

// Programme 培养方案表 — 对应 programmes
type Programme struct {
	ProgrammeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"programme_id"`
	Code        string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name        string `gorm:"type:varchar(200);not null"                     json:"name"`
	VersionedModel
}

// TableName 指定表名
func (Programme) TableName() string { return "programmes" }

// Category 要求类别表 — 对应 categories
// 每个类别持有一棵规则树、最低学分目标与评估优先级（降序评估，
// 高优先级类别先消费课程，已消费课程对低优先级类别不可见）。
type Category struct {
	CategoryID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"category_id"`
	ProgrammeID string    `gorm:"type:uuid;not null;index"                       json:"programme_id"`
	Name        string    `gorm:"type:varchar(100);not null"                     json:"name"`
	Notes       string    `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	MinCredit   int       `gorm:"type:smallint;not null;default:0"               json:"min_credit"`
	Priority    int       `gorm:"type:smallint;not null;default:0"               json:"priority"`
	Rule        *RuleNode `gorm:"type:jsonb"                                     json:"rule,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }
