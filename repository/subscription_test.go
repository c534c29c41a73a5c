package repository

import (
	"testing"

	"github.com/cardanobuybot/tonmetric-bot/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *SubscriptionRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("apertura sqlite in memoria: %v", err)
	}
	if err := db.AutoMigrate(&models.Subscription{}); err != nil {
		t.Fatalf("migrazione: %v", err)
	}

	return NewSubscriptionRepository(db)
}

func countRows(t *testing.T, r *SubscriptionRepository) int64 {
	t.Helper()

	var n int64
	if err := r.db.Model(&models.Subscription{}).Count(&n).Error; err != nil {
		t.Fatalf("conteggio righe: %v", err)
	}
	return n
}

func TestUpsertCreatesActiveRow(t *testing.T) {
	repo := newTestRepo(t)

	sub, err := repo.Upsert(42, "ru", 5.0)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if !sub.Active {
		t.Error("l'iscrizione appena creata deve essere attiva")
	}
	if sub.BasePrice != 5.0 {
		t.Errorf("base attesa 5.0, ottenuto %v", sub.BasePrice)
	}
	if sub.Language != "ru" {
		t.Errorf("lingua attesa ru, ottenuto %q", sub.Language)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.Upsert(42, "en", 5.0); err != nil {
		t.Fatalf("primo upsert: %v", err)
	}
	sub, err := repo.Upsert(42, "uk", 6.0)
	if err != nil {
		t.Fatalf("secondo upsert: %v", err)
	}

	// Una sola riga per chat, riallineata ai nuovi valori
	if n := countRows(t, repo); n != 1 {
		t.Fatalf("attesa una sola riga per chat, trovate %d", n)
	}
	if sub.BasePrice != 6.0 || sub.Language != "uk" || !sub.Active {
		t.Errorf("riga non riallineata: %+v", sub)
	}
}

func TestUpsertReactivates(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.Upsert(42, "en", 5.0); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Deactivate(42); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	sub, err := repo.Upsert(42, "en", 4.0)
	if err != nil {
		t.Fatalf("riattivazione: %v", err)
	}
	if !sub.Active {
		t.Error("l'upsert su una riga disattivata deve riattivarla")
	}
	if sub.BasePrice != 4.0 {
		t.Errorf("base attesa 4.0 dopo la riattivazione, ottenuto %v", sub.BasePrice)
	}
}

func TestDeactivateIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.Upsert(42, "en", 5.0); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.Deactivate(42); err != nil {
		t.Fatalf("prima disattivazione: %v", err)
	}
	if err := repo.Deactivate(42); err != nil {
		t.Errorf("la seconda disattivazione deve essere un no-op, non un errore: %v", err)
	}
	if err := repo.Deactivate(999); err != nil {
		t.Errorf("disattivare una chat sconosciuta deve essere un no-op: %v", err)
	}

	// Soft delete: la riga resta
	if n := countRows(t, repo); n != 1 {
		t.Errorf("la disattivazione non deve cancellare la riga, trovate %d", n)
	}
}

func TestListActiveExcludesDeactivated(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.Upsert(1, "en", 5.0); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.Upsert(2, "ru", 5.0); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Deactivate(1); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	subs, err := repo.ListActive()
	if err != nil {
		t.Fatalf("listActive: %v", err)
	}
	if len(subs) != 1 || subs[0].ChatID != 2 {
		t.Errorf("attesa solo la chat 2 tra le attive, ottenuto %+v", subs)
	}
}

func TestRebaseDoesNotTouchActive(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.Upsert(42, "en", 5.0); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Deactivate(42); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if err := repo.Rebase(42, 5.6); err != nil {
		t.Fatalf("rebase: %v", err)
	}

	sub, err := repo.Get(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sub.BasePrice != 5.6 {
		t.Errorf("base attesa 5.6 dopo il rebase, ottenuto %v", sub.BasePrice)
	}
	if sub.Active {
		t.Error("il rebase non deve riattivare una iscrizione disattivata")
	}
}

func TestRebaseBumpsUpdatedAt(t *testing.T) {
	repo := newTestRepo(t)

	sub, err := repo.Upsert(42, "en", 5.0)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	before := sub.UpdatedAt

	if err := repo.Rebase(42, 5.6); err != nil {
		t.Fatalf("rebase: %v", err)
	}

	after, err := repo.Get(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.UpdatedAt.Unix() < before.Unix() {
		t.Errorf("updated_at non deve tornare indietro: prima %v, dopo %v", before, after.UpdatedAt)
	}
	if after.CreatedAt.Unix() != sub.CreatedAt.Unix() {
		t.Errorf("created_at non deve cambiare col rebase")
	}
}

func TestSetLanguage(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.Upsert(42, "en", 5.0); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.SetLanguage(42, "uk"); err != nil {
		t.Fatalf("setLanguage: %v", err)
	}

	sub, err := repo.Get(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sub.Language != "uk" {
		t.Errorf("lingua attesa uk, ottenuto %q", sub.Language)
	}
	if sub.BasePrice != 5.0 {
		t.Errorf("il cambio lingua non deve toccare la base, ottenuto %v", sub.BasePrice)
	}

	// Chat sconosciuta: no-op
	if err := repo.SetLanguage(999, "ru"); err != nil {
		t.Errorf("setLanguage su chat sconosciuta deve essere un no-op: %v", err)
	}
}
