package main

import (
	"context"
	"os"
	"time"

	"yoyaku/pkg/client"
	"yoyaku/pkg/config"
	"yoyaku/pkg/model"
)

const JobName = "seed"

// Initial fixtures. Users are deduplicated by kana and equipment by name,
// so re-running the job against a populated store is a no-op.
var seedUsers = []model.User{
	{Name: "佐藤 一郎", Kana: "さとう いちろう", Department: "総務部"},
	{Name: "鈴木 花子", Kana: "すずき はなこ", Department: "営業部"},
	{Name: "田中 太郎", Kana: "たなか たろう", Department: "開発部"},
	{Name: "高橋 美咲", Kana: "たかはし みさき", Department: "人事部"},
}

var seedEquipment = []model.Equipment{
	{Name: "プロジェクター", Description: "会議室A備え付け"},
	{Name: "社用車", Description: "5人乗りワゴン"},
	{Name: "ノートPC", Description: "貸出用 ThinkPad"},
	{Name: "会議室B", Description: "8名まで"},
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := config.Load(JobName)
	store := client.NewStore(cfg.StoreBaseURL, client.NewRetryPolicy(cfg.StoreMaxAttempts, cfg.StoreRetryBaseDelay))

	if err := store.WaitForHealthy(ctx, 30*time.Second); err != nil {
		cfg.Log.Fatal("Store did not become healthy", "base_url", cfg.StoreBaseURL, "error", err)
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		cfg.Log.Fatal("SEED_ADMIN_PASSWORD must be set: seeding writes admin-gated entities")
	}
	if _, err := store.AuthenticateAdmin(ctx, password); err != nil {
		cfg.Log.Fatal("Admin authentication failed", "error", err)
	}

	seedAllUsers(ctx, cfg, store)
	seedAllEquipment(ctx, cfg, store)
	cfg.Log.Info("Seeding finished")
}

func seedAllUsers(ctx context.Context, cfg *config.Config, store *client.Store) {
	existing, err := store.ListUsers(ctx)
	if err != nil {
		cfg.Log.Fatal("Failed to list users", "error", err)
	}
	byKana := make(map[string]bool, len(existing))
	for _, u := range existing {
		byKana[u.Kana] = true
	}

	created := 0
	for _, user := range seedUsers {
		if byKana[user.Kana] {
			cfg.Log.Debug("User already present, skipping", "kana", user.Kana)
			continue
		}
		stored, err := store.CreateUser(ctx, user)
		if err != nil {
			cfg.Log.Error("Failed to seed user", "kana", user.Kana, "error", err)
			continue
		}
		cfg.Log.Info("Seeded user", "id", stored.ID, "kana", stored.Kana)
		created++
	}
	cfg.Log.Info("User seeding done", "created", created, "skipped", len(seedUsers)-created)
}

func seedAllEquipment(ctx context.Context, cfg *config.Config, store *client.Store) {
	existing, err := store.ListEquipment(ctx)
	if err != nil {
		cfg.Log.Fatal("Failed to list equipment", "error", err)
	}
	byName := make(map[string]bool, len(existing))
	for _, e := range existing {
		byName[e.Name] = true
	}

	created := 0
	for _, item := range seedEquipment {
		if byName[item.Name] {
			cfg.Log.Debug("Equipment already present, skipping", "name", item.Name)
			continue
		}
		stored, err := store.CreateEquipment(ctx, item)
		if err != nil {
			cfg.Log.Error("Failed to seed equipment", "name", item.Name, "error", err)
			continue
		}
		cfg.Log.Info("Seeded equipment", "id", stored.ID, "name", stored.Name)
		created++
	}
	cfg.Log.Info("Equipment seeding done", "created", created, "skipped", len(seedEquipment)-created)
}
