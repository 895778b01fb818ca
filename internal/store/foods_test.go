package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/freshrack/internal/db"
	"github.com/erazemk/freshrack/internal/model"
)

func newFood(title string, category model.FoodCategory, expiryDate, owner string) *model.FoodItem {
	return &model.FoodItem{
		Title:      title,
		Category:   category,
		Quantity:   1,
		ExpiryDate: expiryDate,
		AddedDate:  "2024-03-01",
		OwnerEmail: owner,
	}
}

func mustCreateFood(t *testing.T, ctx context.Context, database *sql.DB, f *model.FoodItem) *model.FoodItem {
	t.Helper()
	created, err := CreateFood(ctx, database, f)
	if err != nil {
		t.Fatalf("CreateFood %q: %v", f.Title, err)
	}
	return created
}

func TestCreateAndGetFood(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	food, err := CreateFood(ctx, database, &model.FoodItem{
		Title:       "Milk",
		Category:    model.CategoryDairy,
		Quantity:    2,
		ExpiryDate:  "2024-03-12",
		AddedDate:   "2024-03-01",
		OwnerEmail:  "Ana@Example.com",
		ImageURL:    "https://example.com/milk.jpg",
		Description: "Whole milk",
	})
	if err != nil {
		t.Fatalf("CreateFood: %v", err)
	}
	if food.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := GetFood(ctx, database, food.ID)
	if err != nil {
		t.Fatalf("GetFood: %v", err)
	}
	if got == nil {
		t.Fatal("expected food, got nil")
	}
	if got.Title != "Milk" || got.Quantity != 2 || got.Category != model.CategoryDairy {
		t.Errorf("unexpected food: %+v", got)
	}
	if got.OwnerEmail != "ana@example.com" {
		t.Errorf("expected normalized owner email, got %q", got.OwnerEmail)
	}
	if got.ExpiryDate != "2024-03-12" || got.AddedDate != "2024-03-01" {
		t.Errorf("unexpected dates: expiry %q, added %q", got.ExpiryDate, got.AddedDate)
	}
}

func TestGetFoodMissing(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := GetFood(context.Background(), database, "does-not-exist")
	if err != nil {
		t.Fatalf("GetFood: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing food, got %+v", got)
	}
}

func TestCreateFoodRejectsBadRows(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	zero := newFood("Eggs", model.CategoryOther, "2024-03-12", "ana@example.com")
	zero.Quantity = 0
	if _, err := CreateFood(ctx, database, zero); err == nil {
		t.Error("expected error for zero quantity")
	}

	if _, err := CreateFood(ctx, database, newFood("Eggs", "Candy", "2024-03-12", "ana@example.com")); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestListFoodsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustCreateFood(t, ctx, database, newFood("Greek Yogurt", model.CategoryDairy, "2024-03-15", "ana@example.com"))
	mustCreateFood(t, ctx, database, newFood("Milk", model.CategoryDairy, "2024-03-11", "bor@example.com"))
	mustCreateFood(t, ctx, database, newFood("Chicken", model.CategoryMeat, "2024-03-09", "ana@example.com"))
	mustCreateFood(t, ctx, database, newFood("100% juice", model.CategoryBeverages, "2024-03-20", "bor@example.com"))

	all, err := ListFoods(ctx, database, FoodFilter{})
	if err != nil {
		t.Fatalf("ListFoods: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 foods, got %d", len(all))
	}
	if all[0].Title != "Chicken" || all[3].Title != "100% juice" {
		t.Errorf("expected soonest expiry first, got %q ... %q", all[0].Title, all[3].Title)
	}

	dairy, err := ListFoods(ctx, database, FoodFilter{Category: model.CategoryDairy})
	if err != nil {
		t.Fatalf("ListFoods: %v", err)
	}
	if len(dairy) != 2 {
		t.Errorf("expected 2 dairy foods, got %d", len(dairy))
	}

	search, err := ListFoods(ctx, database, FoodFilter{Search: "yog"})
	if err != nil {
		t.Fatalf("ListFoods: %v", err)
	}
	if len(search) != 1 || search[0].Title != "Greek Yogurt" {
		t.Errorf("expected case-insensitive title search to find yogurt, got %+v", search)
	}

	percent, err := ListFoods(ctx, database, FoodFilter{Search: "%"})
	if err != nil {
		t.Fatalf("ListFoods: %v", err)
	}
	if len(percent) != 1 {
		t.Errorf("expected literal %% search to match 1 food, got %d", len(percent))
	}

	mine, err := ListFoods(ctx, database, FoodFilter{OwnerEmail: "ANA@example.com"})
	if err != nil {
		t.Fatalf("ListFoods: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 foods for owner, got %d", len(mine))
	}

	combined, err := ListFoods(ctx, database, FoodFilter{Category: model.CategoryDairy, OwnerEmail: "bor@example.com"})
	if err != nil {
		t.Fatalf("ListFoods: %v", err)
	}
	if len(combined) != 1 || combined[0].Title != "Milk" {
		t.Errorf("expected combined filter to find milk, got %+v", combined)
	}
}

func TestUpdateFoodKeepsImmutableFields(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	food := mustCreateFood(t, ctx, database, newFood("Cheese", model.CategoryDairy, "2024-03-20", "ana@example.com"))

	food.Title = "Aged Cheese"
	food.Quantity = 3
	food.ExpiryDate = "2024-04-01"
	food.AddedDate = "2030-01-01"
	food.OwnerEmail = "mallory@example.com"
	if err := UpdateFood(ctx, database, food); err != nil {
		t.Fatalf("UpdateFood: %v", err)
	}

	got, err := GetFood(ctx, database, food.ID)
	if err != nil {
		t.Fatalf("GetFood: %v", err)
	}
	if got.Title != "Aged Cheese" || got.Quantity != 3 || got.ExpiryDate != "2024-04-01" {
		t.Errorf("expected updated fields, got %+v", got)
	}
	if got.AddedDate != "2024-03-01" {
		t.Errorf("expected added date to stay 2024-03-01, got %q", got.AddedDate)
	}
	if got.OwnerEmail != "ana@example.com" {
		t.Errorf("expected owner to stay ana@example.com, got %q", got.OwnerEmail)
	}
}

func TestDeleteFoodRemovesNotes(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	food := mustCreateFood(t, ctx, database, newFood("Bread", model.CategoryGrains, "2024-03-12", "ana@example.com"))
	if _, err := CreateNote(ctx, database, food.ID, "half loaf left", "ana@example.com", testNow); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	if err := DeleteFood(ctx, database, food.ID); err != nil {
		t.Fatalf("DeleteFood: %v", err)
	}

	got, err := GetFood(ctx, database, food.ID)
	if err != nil {
		t.Fatalf("GetFood: %v", err)
	}
	if got != nil {
		t.Error("expected food to be gone after delete")
	}
	notes, err := ListNotes(ctx, database, food.ID)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("expected notes to be deleted with food, got %d", len(notes))
	}
}

func TestFoodImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	food := mustCreateFood(t, ctx, database, newFood("Apple", model.CategoryFruits, "2024-03-20", "ana@example.com"))

	data, _, err := GetFoodImage(ctx, database, food.ID)
	if err != nil {
		t.Fatalf("GetFoodImage: %v", err)
	}
	if data != nil {
		t.Error("expected no image before upload")
	}

	url := "/api/items/" + food.ID + "/image"
	if err := SetFoodImage(ctx, database, food.ID, []byte("fake image data"), "image/jpeg", url); err != nil {
		t.Fatalf("SetFoodImage: %v", err)
	}

	data, mime, err := GetFoodImage(ctx, database, food.ID)
	if err != nil {
		t.Fatalf("GetFoodImage: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}

	got, err := GetFood(ctx, database, food.ID)
	if err != nil {
		t.Fatalf("GetFood: %v", err)
	}
	if got.ImageURL != url {
		t.Errorf("expected image url %q, got %q", url, got.ImageURL)
	}
}
