// Package seed provides a small starter dataset and loads it into any
// backend through the store contract.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Dataset returns the fixture records per collection. Ids are assigned by
// the store at load time, in slice order, so foreign keys here assume
// insertion starts from an empty collection.
func Dataset() map[string][]store.Record {
	return map[string][]store.Record{
		"users": {
			{"username": "admin", "email": "admin@example.com", "password": "x",
				"displayName": "Administrator", "role": "admin", "points": int64(0), "level": int64(1),
				"badges": []any{}, "achievements": []any{}},
			{"username": "linh", "email": "linh@example.com", "password": "x",
				"displayName": "Linh Tran", "role": "user", "points": int64(120), "level": int64(2),
				"badges": []any{"early-bird"}, "achievements": []any{}},
			{"username": "minh", "email": "minh@example.com", "password": "x",
				"displayName": "Minh Pham", "role": "user", "points": int64(45), "level": int64(1),
				"badges": []any{}, "achievements": []any{}},
		},
		"cultural_categories": {
			{"name": "Architecture", "description": "Temples, citadels and traditional houses", "color": "#b5651d", "sortOrder": int64(1)},
			{"name": "Performing Arts", "description": "Music, theatre and dance traditions", "color": "#7b2d8b", "sortOrder": int64(2)},
			{"name": "Craft Villages", "description": "Traditional handicraft and trade villages", "color": "#2d6a4f", "sortOrder": int64(3)},
		},
		"heritage_sites": {
			{"name": "Imperial Citadel of Thang Long", "description": "Political centre of the region for thirteen centuries",
				"categoryId": int64(1), "location": "Hanoi", "latitude": 21.0352, "longitude": 105.8401,
				"visitCount": int64(1200), "rating": 4.7, "isFeatured": true},
			{"name": "Complex of Hue Monuments", "description": "Imperial capital with citadel, tombs and pagodas",
				"categoryId": int64(1), "location": "Hue", "latitude": 16.4699, "longitude": 107.5794,
				"visitCount": int64(980), "rating": 4.8, "isFeatured": true},
			{"name": "Bat Trang Ceramic Village", "description": "Pottery village famous for its glazed ceramics",
				"categoryId": int64(3), "location": "Hanoi outskirts", "latitude": 20.9760, "longitude": 105.9130,
				"visitCount": int64(310), "rating": 4.2, "isFeatured": false},
		},
		"artifacts": {
			{"name": "Dragon Head Sculpture", "description": "Terracotta dragon head from the citadel excavation",
				"heritageSiteId": int64(1), "categoryId": int64(1), "era": "Ly dynasty", "rarity": "rare", "points": int64(30)},
			{"name": "Nine Dynastic Urns", "description": "Bronze urns cast for the imperial court",
				"heritageSiteId": int64(2), "categoryId": int64(1), "era": "Nguyen dynasty", "rarity": "legendary", "points": int64(50)},
			{"name": "Celadon Glazed Vase", "description": "Classic celadon ware from the village kilns",
				"heritageSiteId": int64(3), "categoryId": int64(3), "era": "Le dynasty", "rarity": "common", "points": int64(10)},
		},
		"exhibitions": {
			{"name": "Treasures of the Citadel", "description": "Excavated artifacts from the royal enclosure",
				"heritageSiteId": int64(1), "startsAt": date(2026, time.March, 1), "endsAt": date(2026, time.September, 1),
				"artifactIds": []any{int64(1)}},
		},
		"timelines": {
			{"title": "Dynastic Architecture", "description": "Major building periods",
				"categoryId": int64(1), "era": "Ly to Nguyen", "yearFrom": int64(1010), "yearTo": int64(1945),
				"timelineOrder": []any{int64(1), int64(2)}},
		},
		"collections": {
			{"name": "Linh's Favourites", "description": "Ceramics and bronzes",
				"userId": int64(2), "items": []any{int64(2), int64(3)}, "isPublic": true},
		},
		"favorites": {
			{"userId": int64(2), "heritageSiteId": int64(1)},
			{"userId": int64(3), "heritageSiteId": int64(2)},
		},
		"reviews": {
			{"userId": int64(2), "heritageSiteId": int64(1), "rating": int64(5), "comment": "A must see."},
			{"userId": int64(3), "heritageSiteId": int64(1), "rating": int64(4), "comment": "Crowded but worth it."},
		},
		"notifications": {
			{"userId": int64(2), "title": "Welcome", "body": "Thanks for joining.", "type": "info", "isRead": false},
		},
		"shop_items": {
			{"name": "Citadel Poster", "description": "A1 print of the citadel gate", "price": 12.5,
				"category": "prints", "stock": int64(40), "isActive": true},
			{"name": "Ceramic Mug", "description": "Bat Trang glazed mug", "price": 8.0,
				"category": "ceramics", "stock": int64(120), "isActive": true},
		},
		"game_chapters": {
			{"title": "The Hidden Citadel", "description": "Explore the royal enclosure",
				"heritageSiteId": int64(1), "chapterOrder": int64(1), "isLocked": false},
			{"title": "Court of Hue", "description": "Life inside the imperial city",
				"heritageSiteId": int64(2), "chapterOrder": int64(2), "isLocked": true},
		},
		"game_levels": {
			{"title": "Gatekeeper's Riddle", "description": "Find the north gate",
				"chapterId": int64(1), "levelOrder": int64(1), "points": int64(20),
				"screens": []any{}, "clues": []any{}, "quizzes": []any{}, "rewards": []any{}},
		},
		"game_characters": {
			{"name": "The Scholar", "description": "A court scholar who guides new players", "era": "Le dynasty", "rarity": "common"},
		},
		"game_progress": {
			{"userId": int64(2), "chapterId": int64(1), "currentLevel": int64(1), "totalPoints": int64(20),
				"unlockedChapters": []any{int64(1)}, "completedLevels": []any{},
				"collectedCharacters": []any{int64(1)}, "collectedItems": []any{}},
		},
		"game_sessions": {
			{"userId": int64(2), "levelId": int64(1), "score": int64(20),
				"answeredQuestions": []any{}, "completedScreens": []any{},
				"startedAt": date(2026, time.May, 10), "finishedAt": date(2026, time.May, 10)},
		},
	}
}

// Load inserts the dataset into dst in foreign-key-safe order. Collections
// that already contain records are skipped so loading is idempotent.
func Load(ctx context.Context, dst store.Store) error {
	data := Dataset()
	for _, name := range schema.Collections() {
		records, ok := data[name]
		if !ok {
			continue
		}

		existing, err := dst.FindAll(ctx, name)
		if err != nil {
			return fmt.Errorf("seeding %s: %w", name, err)
		}
		if len(existing) > 0 {
			continue
		}

		for _, rec := range records {
			if _, err := dst.Create(ctx, name, rec); err != nil {
				return fmt.Errorf("seeding %s: %w", name, err)
			}
		}
	}
	return nil
}
