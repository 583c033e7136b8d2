package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"subscription-billing/internal/config"
	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
	pg "subscription-billing/internal/infra/db/postgres"
	httpapi "subscription-billing/internal/infra/http"
)

// Seeds a predictable catalog and one demo account for manual checkout testing.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	reset := flag.Bool("reset", false, "truncate billing tables before seeding")
	account := flag.String("account", "demo@example.com", "demo account to create")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if *reset {
		_, err = pool.Exec(ctx, `TRUNCATE orders, user_subscriptions, discounts, fare_rules, users RESTART IDENTITY CASCADE;`)
		if err != nil {
			log.Fatalf("truncate: %v", err)
		}
		fmt.Println("tables truncated")
	}

	tm := pg.NewTxManager(pool)
	ruleRepo := pg.NewPostgresFareRuleRepo(pool)
	discountRepo := pg.NewPostgresDiscountRepo(pool)
	userRepo := pg.NewPostgresUserRepo(pool)

	rules := []*model.FareRule{
		{PublicID: "0b7cbd0e-3f6e-4a3c-9f0e-5d1a3b0c2e11", Name: "Starter", Price: decimal.NewFromInt(490), PlanType: "starter"},
		{PublicID: "9a0e3c44-7b1d-4c1e-8c52-2f3a4b5c6d7e", Name: "Pro", Price: decimal.NewFromInt(1000), PlanType: "pro"},
		{PublicID: "5c2f7a10-8d3e-4b6a-9e1f-0a2b3c4d5e6f", Name: "Business", Price: decimal.NewFromInt(2000), PlanType: "business"},
	}
	discounts := []model.DiscountRate{
		{Months: 3, Category: model.DiscountCategoryService, Percent: decimal.NewFromInt(10)},
		{Months: 6, Category: model.DiscountCategoryService, Percent: decimal.NewFromInt(15)},
		{Months: 12, Category: model.DiscountCategoryService, Percent: decimal.NewFromInt(20)},
	}
	user := &model.User{Account: *account, FirstName: "Demo", LastName: "User", Phone: "+70000000000", RegisteredAt: time.Now().UTC()}

	err = tm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		for _, r := range rules {
			if err := ruleRepo.Save(ctx, tx, r); err != nil {
				return fmt.Errorf("fare rule %q: %w", r.Name, err)
			}
		}
		for _, d := range discounts {
			if err := discountRepo.Save(ctx, tx, d); err != nil {
				return fmt.Errorf("discount %d months: %w", d.Months, err)
			}
		}
		return userRepo.Save(ctx, tx, user)
	})
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	for _, r := range rules {
		fmt.Printf("fare rule: %s (id=%d, public=%s, price=%s/mo)\n", r.Name, r.RuleID, r.PublicID, r.Price.StringFixed(2))
	}
	for _, d := range discounts {
		fmt.Printf("discount: %d months -> %s%%\n", d.Months, d.Percent)
	}
	fmt.Printf("user: %s (id=%s)\n", user.Account, user.ID)

	if cfg.Auth.JWTSecret != "" {
		tok, err := httpapi.NewTokenAuth(cfg.Auth.JWTSecret).Mint(user.Account, 24*time.Hour)
		if err != nil {
			log.Fatalf("mint token: %v", err)
		}
		fmt.Printf("bearer token (24h): %s\n", tok)
	}
	fmt.Println("seeding complete")
}
