package main // seeds the floor plan and menu catalog for a fresh install

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sezalkc/tablease/internal/config"
	"github.com/sezalkc/tablease/internal/database"
	"github.com/sezalkc/tablease/internal/model"
	"github.com/sezalkc/tablease/internal/repository"
)

var (
	tableCount = flag.Int("tables", 10, "number of tables to create (T1..Tn)")
	seats      = flag.Int("seats", 4, "seats per table")
	wipe       = flag.Bool("wipe", false, "delete existing menu items and tables first")
)

// menuSeed is the default catalog loaded on a fresh install.
var menuSeed = []model.MenuItem{
	{Name: "Chicken Chilli", Category: model.CategoryStarters, Price: 380, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1606890658317-7d14490b76fd?w=400"},
	{Name: "Veg Momo (8 pcs)", Category: model.CategoryStarters, Price: 220, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1626777552726-4a6b54c97e46?w=400"},
	{Name: "Chicken Momo (8 pcs)", Category: model.CategoryStarters, Price: 320, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1627308594178-35d0f4d3f3e2?w=400"},
	{Name: "Aloo Sandheko", Category: model.CategoryStarters, Price: 180, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1606491956689-2ea866880c84?w=400"},

	{Name: "Dal Bhat Tarkari", Category: model.CategoryMainCourse, Price: 280, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1606491956689-2ea866880c84?w=400"},
	{Name: "Chicken Sekuwa", Category: model.CategoryMainCourse, Price: 450, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1606491956689-2ea866880c84?w=400"},
	{Name: "Mutton Curry", Category: model.CategoryMainCourse, Price: 520, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1606491956689-2ea866880c84?w=400"},
	{Name: "Chowmein (Chicken)", Category: model.CategoryMainCourse, Price: 350, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1606491956689-2ea866880c84?w=400"},

	{Name: "Lassi (Sweet/Salted)", Category: model.CategoryDrinks, Price: 120, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1570545887536-2e3c5f4b8a0e?w=400"},
	{Name: "Lemon Soda", Category: model.CategoryDrinks, Price: 80, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1621263764928-df144e0e2a3d?w=400"},
	{Name: "Masala Tea", Category: model.CategoryDrinks, Price: 60, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1571934811356-5cc061b6821f?w=400"},

	{Name: "Kheer", Category: model.CategoryDesserts, Price: 140, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1606491956689-2ea866880c84?w=400"},
	{Name: "Gulab Jamun (2 pcs)", Category: model.CategoryDesserts, Price: 120, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1606491956689-2ea866880c84?w=400"},
	{Name: "Sikarni", Category: model.CategoryDesserts, Price: 160, Available: true,
		ImageURL: "https://images.unsplash.com/photo-1606491956689-2ea866880c84?w=400"},
}

func main() {
	flag.Parse()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := database.ApplySchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	if *wipe {
		for _, stmt := range []string{
			"DELETE FROM order_items", "DELETE FROM orders",
			"DELETE FROM menu_items", "DELETE FROM tables",
		} {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				log.Fatalf("wipe: %v", err)
			}
		}
	}

	menu := repository.NewMenuRepo(db)
	for _, m := range menuSeed {
		if _, err := menu.Create(ctx, m); err != nil {
			log.Fatalf("menu item %q: %v", m.Name, err)
		}
	}
	log.Printf("seeded %d menu items", len(menuSeed))

	tables := repository.NewTableRepo(db)
	for i := 1; i <= *tableCount; i++ {
		if _, err := tables.Create(ctx, fmt.Sprintf("T%d", i), uint32(*seats)); err != nil {
			log.Fatalf("table T%d: %v", i, err)
		}
	}
	log.Printf("seeded %d tables", *tableCount)
}
