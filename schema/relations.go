package schema

import "github.com/sen-heritage/store"

// Relations declares every expand/embed the catalog supports. Relation
// names and key fields use application (camelCase) naming; backends
// translate to their column naming as needed. The collections.items
// relation is inline: a collection row carries its artifact list as a JSON
// array, so resolving it never issues a lookup.
func Relations() store.RelationMap {
	return store.RelationMap{
		"heritage_sites": {
			"category": {
				Target: "cultural_categories", LocalField: "categoryId",
				ForeignField: "id", Cardinality: store.One,
			},
			"artifacts": {
				Target: "artifacts", LocalField: "id",
				ForeignField: "heritageSiteId", Cardinality: store.Many,
			},
			"reviews": {
				Target: "reviews", LocalField: "id",
				ForeignField: "heritageSiteId", Cardinality: store.Many,
			},
			"exhibitions": {
				Target: "exhibitions", LocalField: "id",
				ForeignField: "heritageSiteId", Cardinality: store.Many,
			},
		},
		"artifacts": {
			"heritageSite": {
				Target: "heritage_sites", LocalField: "heritageSiteId",
				ForeignField: "id", Cardinality: store.One,
			},
			"category": {
				Target: "cultural_categories", LocalField: "categoryId",
				ForeignField: "id", Cardinality: store.One,
			},
		},
		"exhibitions": {
			"heritageSite": {
				Target: "heritage_sites", LocalField: "heritageSiteId",
				ForeignField: "id", Cardinality: store.One,
			},
		},
		"timelines": {
			"category": {
				Target: "cultural_categories", LocalField: "categoryId",
				ForeignField: "id", Cardinality: store.One,
			},
		},
		"cultural_categories": {
			"heritageSites": {
				Target: "heritage_sites", LocalField: "id",
				ForeignField: "categoryId", Cardinality: store.Many,
			},
			"timelines": {
				Target: "timelines", LocalField: "id",
				ForeignField: "categoryId", Cardinality: store.Many,
			},
		},
		"collections": {
			"user": {
				Target: "users", LocalField: "userId",
				ForeignField: "id", Cardinality: store.One,
			},
			"items": {
				Target: "artifacts", LocalField: "id",
				ForeignField: "", Cardinality: store.Many, Storage: store.Inline,
			},
		},
		"favorites": {
			"user": {
				Target: "users", LocalField: "userId",
				ForeignField: "id", Cardinality: store.One,
			},
			"heritageSite": {
				Target: "heritage_sites", LocalField: "heritageSiteId",
				ForeignField: "id", Cardinality: store.One,
			},
		},
		"reviews": {
			"user": {
				Target: "users", LocalField: "userId",
				ForeignField: "id", Cardinality: store.One,
			},
			"heritageSite": {
				Target: "heritage_sites", LocalField: "heritageSiteId",
				ForeignField: "id", Cardinality: store.One,
			},
		},
		"notifications": {
			"user": {
				Target: "users", LocalField: "userId",
				ForeignField: "id", Cardinality: store.One,
			},
		},
		"users": {
			"collections": {
				Target: "collections", LocalField: "id",
				ForeignField: "userId", Cardinality: store.Many,
			},
			"favorites": {
				Target: "favorites", LocalField: "id",
				ForeignField: "userId", Cardinality: store.Many,
			},
			"reviews": {
				Target: "reviews", LocalField: "id",
				ForeignField: "userId", Cardinality: store.Many,
			},
			"notifications": {
				Target: "notifications", LocalField: "id",
				ForeignField: "userId", Cardinality: store.Many,
			},
			"gameProgress": {
				Target: "game_progress", LocalField: "id",
				ForeignField: "userId", Cardinality: store.Many,
			},
		},
		"game_chapters": {
			"heritageSite": {
				Target: "heritage_sites", LocalField: "heritageSiteId",
				ForeignField: "id", Cardinality: store.One,
			},
			"levels": {
				Target: "game_levels", LocalField: "id",
				ForeignField: "chapterId", Cardinality: store.Many,
			},
		},
		"game_levels": {
			"chapter": {
				Target: "game_chapters", LocalField: "chapterId",
				ForeignField: "id", Cardinality: store.One,
			},
			"sessions": {
				Target: "game_sessions", LocalField: "id",
				ForeignField: "levelId", Cardinality: store.Many,
			},
		},
		"game_progress": {
			"user": {
				Target: "users", LocalField: "userId",
				ForeignField: "id", Cardinality: store.One,
			},
			"chapter": {
				Target: "game_chapters", LocalField: "chapterId",
				ForeignField: "id", Cardinality: store.One,
			},
		},
		"game_sessions": {
			"user": {
				Target: "users", LocalField: "userId",
				ForeignField: "id", Cardinality: store.One,
			},
			"level": {
				Target: "game_levels", LocalField: "levelId",
				ForeignField: "id", Cardinality: store.One,
			},
		},
	}
}

// Normalizer returns the field normalizer configured for the catalog's JSON
// blob fields.
func Normalizer() *store.Normalizer {
	return store.NewNormalizer(JSONBlobFields())
}
