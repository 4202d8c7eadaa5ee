package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-crowdfunding/favorites-service/internal/config"
	"github.com/pribylovaa/go-crowdfunding/favorites-service/internal/models"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты хранилища избранного (favorites.go):
// — поднимают MongoDB в контейнере один раз на пакет;
// — проверяют идемпотентность AddFavorite/RemoveFavorite, порядок выдачи
//   ListByOwner и изоляцию владельцев.

// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/mongo -v -race -count=1

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain запускает MongoDB в контейнере один раз на весь пакет тестов.
// Адрес контейнера прокидывается в ENV DATABASE_URL, а каждая спецификация
// создаёт свою БД с уникальным именем (см. newTestConfig).
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
	}

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	_ = os.Setenv("DATABASE_URL", uri)

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

// newTestConfig создаёт конфиг с отдельной тестовой БД.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	baseURL := os.Getenv("DATABASE_URL")
	if baseURL == "" {
		baseURL = "mongodb://localhost:27017"
	}

	dbName := "favorites_test_" + uuid.New().String()
	if baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL + dbName
	} else {
		baseURL = baseURL + "/" + dbName
	}

	return &config.Config{
		DB: config.DBConfig{
			URL: baseURL,
		},
	}
}

// mustNewMongo создаёт подключение к тестовой БД и регистрирует очистку по завершении теста.
// Без GO_TEST_INTEGRATION тест пропускается.
func mustNewMongo(t *testing.T, cfg *config.Config) *Mongo {
	t.Helper()

	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	m, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("cannot connect to MongoDB in container: %v (DATABASE_URL=%s)", err, cfg.DB.URL)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})

	return m
}

func TestAddFavorite_Idempotent(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	owner := uuid.New()
	fav := models.Favorite{OwnerID: owner, CampaignID: "c-1"}

	added, err := m.AddFavorite(ctx, fav)
	if err != nil {
		t.Fatalf("AddFavorite error: %v", err)
	}
	if !added {
		t.Fatalf("first AddFavorite: added = false, want true")
	}

	// Повтор — no-op без ошибки.
	added, err = m.AddFavorite(ctx, fav)
	if err != nil {
		t.Fatalf("repeated AddFavorite error: %v", err)
	}
	if added {
		t.Fatalf("repeated AddFavorite: added = true, want false")
	}

	items, err := m.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
}

func TestAddFavorite_KeepsOriginalCreatedAt(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	owner := uuid.New()
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	if _, err := m.AddFavorite(ctx, models.Favorite{OwnerID: owner, CampaignID: "c-1", CreatedAt: first}); err != nil {
		t.Fatalf("AddFavorite error: %v", err)
	}
	if _, err := m.AddFavorite(ctx, models.Favorite{OwnerID: owner, CampaignID: "c-1", CreatedAt: first.Add(time.Hour)}); err != nil {
		t.Fatalf("repeated AddFavorite error: %v", err)
	}

	items, err := m.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if !items[0].CreatedAt.Equal(first) {
		t.Fatalf("CreatedAt = %v, want %v (must not change on repeated add)", items[0].CreatedAt, first)
	}
}

func TestRemoveFavorite_Idempotent(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	owner := uuid.New()

	// Удаление отсутствующей записи — no-op без ошибки.
	removed, err := m.RemoveFavorite(ctx, owner, "ghost")
	if err != nil {
		t.Fatalf("RemoveFavorite(absent) error: %v", err)
	}
	if removed {
		t.Fatalf("RemoveFavorite(absent): removed = true, want false")
	}

	if _, err := m.AddFavorite(ctx, models.Favorite{OwnerID: owner, CampaignID: "c-1"}); err != nil {
		t.Fatalf("AddFavorite error: %v", err)
	}

	removed, err = m.RemoveFavorite(ctx, owner, "c-1")
	if err != nil {
		t.Fatalf("RemoveFavorite error: %v", err)
	}
	if !removed {
		t.Fatalf("RemoveFavorite: removed = false, want true")
	}

	items, err := m.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("len(items) = %d, want 0", len(items))
	}
}

func TestListByOwner_InsertionOrderAndIsolation(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	owner := uuid.New()
	other := uuid.New()

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"c-3", "c-1", "c-2"} {
		fav := models.Favorite{
			OwnerID:    owner,
			CampaignID: id,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := m.AddFavorite(ctx, fav); err != nil {
			t.Fatalf("AddFavorite(%s) error: %v", id, err)
		}
	}

	if _, err := m.AddFavorite(ctx, models.Favorite{OwnerID: other, CampaignID: "c-other"}); err != nil {
		t.Fatalf("AddFavorite(other) error: %v", err)
	}

	items, err := m.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}

	// Порядок добавления, не лексикографический.
	want := []string{"c-3", "c-1", "c-2"}
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i].CampaignID != want[i] {
			t.Fatalf("items[%d] = %q, want %q", i, items[i].CampaignID, want[i])
		}
		if items[i].OwnerID != owner {
			t.Fatalf("items[%d].OwnerID = %v, want %v", i, items[i].OwnerID, owner)
		}
	}
}

func TestEnsureIndexes_UniquePair(t *testing.T) {
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	cur, err := m.favorites.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes error: %v", err)
	}
	defer cur.Close(ctx)

	found := false
	for cur.Next(ctx) {
		var idx struct {
			Name   string `bson:"name"`
			Unique bool   `bson:"unique"`
		}
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode index error: %v", err)
		}
		if idx.Name == "owner_campaign_unique" {
			found = true
			if !idx.Unique {
				t.Fatalf("index owner_campaign_unique must be unique")
			}
		}
	}
	if !found {
		t.Fatalf("index owner_campaign_unique not found")
	}
}
