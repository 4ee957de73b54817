package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"foodgram-go/internal/model"
)

type fakeSeeder struct {
	tags        map[string]bool
	ingredients map[string]bool
}

func (f *fakeSeeder) CreateTagIfAbsent(_ context.Context, tag *model.Tag) (bool, error) {
	if f.tags[tag.Slug] {
		return false, nil
	}
	f.tags[tag.Slug] = true
	return true, nil
}

func (f *fakeSeeder) CreateIngredientIfAbsent(_ context.Context, name, unit string) (bool, error) {
	key := name + "|" + unit
	if f.ingredients[key] {
		return false, nil
	}
	f.ingredients[key] = true
	return true, nil
}

func newImportFixture() (*ImportService, *fakeSeeder, *fakeUsers) {
	seeder := &fakeSeeder{tags: map[string]bool{}, ingredients: map[string]bool{}}
	users := newFakeUsers()
	return NewImportService(seeder, users), seeder, users
}

func TestImportIngredients(t *testing.T) {
	svc, seeder, _ := newImportFixture()
	input := "абрикосовое варенье,г\nмука, г\nмука,г\n\"соль, морская\",г\n"

	stats, err := svc.ImportIngredients(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportIngredients: %v", err)
	}
	if stats.Created != 3 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 3 created 1 skipped", stats)
	}
	if !seeder.ingredients["соль, морская|г"] {
		t.Error("quoted name with comma not imported")
	}
}

func TestImportRejectsBlankFields(t *testing.T) {
	tests := []struct {
		name    string
		run     func(*ImportService, context.Context, io.Reader) (ImportStats, error)
		input   string
		line    string
		created int
	}{
		{"blank ingredient name", (*ImportService).ImportIngredients, "мука,г\n  ,g\n", "line 2", 1},
		{"blank unit", (*ImportService).ImportIngredients, "соль, \nмука,г\n", "line 1", 0},
		{"blank tag slug", (*ImportService).ImportTags, "Ужин, \n", "line 1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, seeder, _ := newImportFixture()
			stats, err := tt.run(svc, context.Background(), strings.NewReader(tt.input))
			if !errors.Is(err, ErrBlankImportField) {
				t.Fatalf("err = %v, want ErrBlankImportField", err)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("err = %q, want it to mention %q", err, tt.line)
			}
			if stats.Created != tt.created {
				t.Errorf("created = %d, want %d", stats.Created, tt.created)
			}
			for key := range seeder.ingredients {
				if strings.HasPrefix(key, "|") || strings.HasSuffix(key, "|") {
					t.Errorf("blank ingredient stored: %q", key)
				}
			}
		})
	}
}

func TestImportTagsRejectsMalformedRow(t *testing.T) {
	svc, _, _ := newImportFixture()
	input := "Завтрак,breakfast\nОбед\n"

	stats, err := svc.ImportTags(context.Background(), strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for row with a missing column")
	}
	if stats.Created != 1 {
		t.Errorf("rows before the bad one should be imported, stats = %+v", stats)
	}
}

func TestImportUsersSkipsExisting(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newImportFixture()
	_ = users.Create(ctx, &model.User{Email: "taken@foodgram.test", Username: "taken"})

	input := strings.Join([]string{
		"Ivan,Petrov,ivan,ivan@foodgram.test,pass-one-1",
		"Anna,Sidorova,taken,anna@foodgram.test,pass-two-2",
		"Oleg,Ivanov,oleg,taken@foodgram.test,pass-three-3",
	}, "\n")

	stats, err := svc.ImportUsers(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportUsers: %v", err)
	}
	if stats.Created != 1 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 1 created 2 skipped", stats)
	}

	ivan, err := users.GetByEmail(ctx, "ivan@foodgram.test")
	if err != nil {
		t.Fatal(err)
	}
	if ivan.Password == "pass-one-1" {
		t.Error("imported password stored in plain text")
	}
}
