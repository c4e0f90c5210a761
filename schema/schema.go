// Package schema declares the heritage catalog: its collections, their
// columns, and the relations between them. Backends use it to create tables,
// decode JSON columns and resolve expand/embed.
package schema

// ColumnType is a backend-neutral column type. Each SQL dialect maps it to
// its native type; the document backends ignore it.
type ColumnType int

const (
	TypeInt ColumnType = iota
	TypeDecimal
	TypeString
	TypeText
	TypeBool
	TypeTime
	// TypeJSON columns hold serialized documents. They are stored as a
	// single opaque value and never key-normalized.
	TypeJSON
)

// Column describes one column of a table.
type Column struct {
	Name      string
	Type      ColumnType
	Size      int // VARCHAR length, 0 for the dialect default
	Precision int // DECIMAL precision
	Scale     int // DECIMAL scale
	Required  bool
	Unique    bool
	Default   any

	// References names the table a foreign key points at; the referenced
	// column is always id.
	References      string
	OnDeleteCascade bool
}

// Index describes a non-unique index over one or more columns.
type Index struct {
	Name    string
	Columns []string
}

// Table describes one collection's storage layout.
type Table struct {
	Name    string
	Columns []Column
	Indexes []Index
	// Uniques lists multi-column unique constraints.
	Uniques [][]string
}

func varchar(name string, size int) Column {
	return Column{Name: name, Type: TypeString, Size: size}
}

func required(c Column) Column {
	c.Required = true
	return c
}

func fk(name, table string) Column {
	return Column{Name: name, Type: TypeInt, References: table, OnDeleteCascade: true}
}

func timestamps() []Column {
	return []Column{
		{Name: "created_at", Type: TypeTime},
		{Name: "updated_at", Type: TypeTime},
	}
}

// Tables returns the full catalog in foreign-key-safe creation order.
func Tables() []Table {
	return []Table{
		{
			Name: "users",
			Columns: append([]Column{
				required(Column{Name: "username", Type: TypeString, Size: 100, Unique: true}),
				required(Column{Name: "email", Type: TypeString, Size: 255, Unique: true}),
				required(varchar("password", 255)),
				varchar("display_name", 255),
				varchar("avatar", 500),
				{Name: "role", Type: TypeString, Size: 50, Default: "user"},
				{Name: "points", Type: TypeInt, Default: int64(0)},
				{Name: "level", Type: TypeInt, Default: int64(1)},
				{Name: "badges", Type: TypeJSON},
				{Name: "achievements", Type: TypeJSON},
				{Name: "last_login", Type: TypeTime},
			}, timestamps()...),
		},
		{
			Name: "cultural_categories",
			Columns: append([]Column{
				required(varchar("name", 255)),
				{Name: "description", Type: TypeText},
				varchar("icon", 500),
				varchar("color", 50),
				{Name: "sort_order", Type: TypeInt, Default: int64(0)},
			}, timestamps()...),
		},
		{
			Name: "heritage_sites",
			Columns: append([]Column{
				required(varchar("name", 255)),
				{Name: "description", Type: TypeText},
				fk("category_id", "cultural_categories"),
				varchar("location", 500),
				{Name: "latitude", Type: TypeDecimal, Precision: 10, Scale: 7},
				{Name: "longitude", Type: TypeDecimal, Precision: 10, Scale: 7},
				varchar("image", 500),
				{Name: "visit_count", Type: TypeInt, Default: int64(0)},
				{Name: "rating", Type: TypeDecimal, Precision: 3, Scale: 2, Default: float64(0)},
				{Name: "is_featured", Type: TypeBool, Default: false},
			}, timestamps()...),
			Indexes: []Index{{Name: "idx_heritage_sites_category", Columns: []string{"category_id"}}},
		},
		{
			Name: "artifacts",
			Columns: append([]Column{
				required(varchar("name", 255)),
				{Name: "description", Type: TypeText},
				fk("heritage_site_id", "heritage_sites"),
				fk("category_id", "cultural_categories"),
				varchar("era", 255),
				varchar("image", 500),
				varchar("model_url", 500),
				{Name: "rarity", Type: TypeString, Size: 50, Default: "common"},
				{Name: "points", Type: TypeInt, Default: int64(0)},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_artifacts_site", Columns: []string{"heritage_site_id"}},
				{Name: "idx_artifacts_category", Columns: []string{"category_id"}},
			},
		},
		{
			Name: "exhibitions",
			Columns: append([]Column{
				required(varchar("name", 255)),
				{Name: "description", Type: TypeText},
				fk("heritage_site_id", "heritage_sites"),
				varchar("image", 500),
				{Name: "starts_at", Type: TypeTime},
				{Name: "ends_at", Type: TypeTime},
				{Name: "artifact_ids", Type: TypeJSON},
			}, timestamps()...),
			Indexes: []Index{{Name: "idx_exhibitions_site", Columns: []string{"heritage_site_id"}}},
		},
		{
			Name: "timelines",
			Columns: append([]Column{
				required(varchar("title", 255)),
				{Name: "description", Type: TypeText},
				fk("category_id", "cultural_categories"),
				varchar("era", 255),
				{Name: "year_from", Type: TypeInt},
				{Name: "year_to", Type: TypeInt},
				{Name: "timeline_order", Type: TypeJSON},
			}, timestamps()...),
		},
		{
			Name: "collections",
			Columns: append([]Column{
				required(varchar("name", 255)),
				{Name: "description", Type: TypeText},
				fk("user_id", "users"),
				// items is the inline artifact list; it never joins.
				{Name: "items", Type: TypeJSON},
				{Name: "is_public", Type: TypeBool, Default: false},
			}, timestamps()...),
			Indexes: []Index{{Name: "idx_collections_user", Columns: []string{"user_id"}}},
		},
		{
			Name: "favorites",
			Columns: append([]Column{
				fk("user_id", "users"),
				fk("heritage_site_id", "heritage_sites"),
			}, timestamps()...),
			Uniques: [][]string{{"user_id", "heritage_site_id"}},
		},
		{
			Name: "reviews",
			Columns: append([]Column{
				fk("user_id", "users"),
				fk("heritage_site_id", "heritage_sites"),
				{Name: "rating", Type: TypeInt, Default: int64(5)},
				{Name: "comment", Type: TypeText},
			}, timestamps()...),
			Indexes: []Index{{Name: "idx_reviews_site", Columns: []string{"heritage_site_id"}}},
		},
		{
			Name: "notifications",
			Columns: append([]Column{
				fk("user_id", "users"),
				required(varchar("title", 255)),
				{Name: "body", Type: TypeText},
				{Name: "type", Type: TypeString, Size: 50, Default: "info"},
				{Name: "is_read", Type: TypeBool, Default: false},
			}, timestamps()...),
			Indexes: []Index{{Name: "idx_notifications_user", Columns: []string{"user_id"}}},
		},
		{
			Name: "shop_items",
			Columns: append([]Column{
				required(varchar("name", 255)),
				{Name: "description", Type: TypeText},
				{Name: "price", Type: TypeDecimal, Precision: 10, Scale: 2, Default: float64(0)},
				varchar("image", 500),
				{Name: "category", Type: TypeString, Size: 100},
				{Name: "stock", Type: TypeInt, Default: int64(0)},
				{Name: "is_active", Type: TypeBool, Default: true},
			}, timestamps()...),
		},
		{
			Name: "game_chapters",
			Columns: append([]Column{
				required(varchar("title", 255)),
				{Name: "description", Type: TypeText},
				fk("heritage_site_id", "heritage_sites"),
				{Name: "chapter_order", Type: TypeInt, Default: int64(0)},
				varchar("image", 500),
				{Name: "is_locked", Type: TypeBool, Default: true},
			}, timestamps()...),
		},
		{
			Name: "game_levels",
			Columns: append([]Column{
				required(varchar("title", 255)),
				{Name: "description", Type: TypeText},
				fk("chapter_id", "game_chapters"),
				{Name: "level_order", Type: TypeInt, Default: int64(0)},
				{Name: "screens", Type: TypeJSON},
				{Name: "clues", Type: TypeJSON},
				{Name: "quizzes", Type: TypeJSON},
				{Name: "rewards", Type: TypeJSON},
				{Name: "points", Type: TypeInt, Default: int64(0)},
			}, timestamps()...),
			Indexes: []Index{{Name: "idx_game_levels_chapter", Columns: []string{"chapter_id"}}},
		},
		{
			Name: "game_characters",
			Columns: append([]Column{
				required(varchar("name", 255)),
				{Name: "description", Type: TypeText},
				varchar("image", 500),
				varchar("era", 255),
				{Name: "rarity", Type: TypeString, Size: 50, Default: "common"},
			}, timestamps()...),
		},
		{
			Name: "game_progress",
			Columns: append([]Column{
				fk("user_id", "users"),
				fk("chapter_id", "game_chapters"),
				{Name: "current_level", Type: TypeInt, Default: int64(1)},
				{Name: "unlocked_chapters", Type: TypeJSON},
				{Name: "completed_levels", Type: TypeJSON},
				{Name: "collected_characters", Type: TypeJSON},
				{Name: "collected_items", Type: TypeJSON},
				{Name: "total_points", Type: TypeInt, Default: int64(0)},
			}, timestamps()...),
			Uniques: [][]string{{"user_id", "chapter_id"}},
		},
		{
			Name: "game_sessions",
			Columns: append([]Column{
				fk("user_id", "users"),
				fk("level_id", "game_levels"),
				{Name: "answered_questions", Type: TypeJSON},
				{Name: "completed_screens", Type: TypeJSON},
				{Name: "score", Type: TypeInt, Default: int64(0)},
				{Name: "started_at", Type: TypeTime},
				{Name: "finished_at", Type: TypeTime},
			}, timestamps()...),
			Indexes: []Index{{Name: "idx_game_sessions_user", Columns: []string{"user_id"}}},
		},
	}
}

// Collections lists every collection name in creation order.
func Collections() []string {
	tables := Tables()
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

// JSONBlobFields lists, in application (camelCase) naming, the fields whose
// values are opaque JSON documents.
func JSONBlobFields() []string {
	return []string{
		"items", "screens", "clues", "quizzes", "rewards",
		"unlockedChapters", "completedLevels", "collectedCharacters",
		"badges", "achievements", "artifactIds", "collectedItems",
		"answeredQuestions", "timelineOrder", "completedScreens",
	}
}

// SearchColumns lists the columns the free-text q parameter matches against
// when a collection has them.
func SearchColumns() []string {
	return []string{"name", "description"}
}
