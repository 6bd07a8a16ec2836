package cli

import (
	"context"
	"fmt"
	"time"

	"merch-nexus/internal/domain"
	"merch-nexus/internal/repository"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedNamespace derives stable ids so reseeding finds the same rows.
var seedNamespace = uuid.MustParse("5f0d3c8e-6a57-4a43-9a8c-2f7b0c1e9d41")

// seedCommand creates the seed command
func seedCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users and a demo catalog",
		Long: `Insert a fixed set of demo users and catalog products for local use.

Rows that already exist are skipped, so the command can be rerun. Everything
runs in one transaction.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			uow := repository.NewUnitOfWork(e.db.DB())

			var report seedReport
			err := uow.WithinTx(cmd.Context(), func(repos repository.Repositories) error {
				var err error
				report, err = seed(cmd.Context(), repos, time.Now().UTC())
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to seed database: %w", err)
			}

			e.logger.Info("Seed completed",
				zap.Int("users", report.Users),
				zap.Int("products", report.Products),
				zap.Int("skipped", report.Skipped),
			)
			return nil
		},
	}
}

type seedReport struct {
	Users    int
	Products int
	Skipped  int
}

func seed(ctx context.Context, repos repository.Repositories, now time.Time) (seedReport, error) {
	var report seedReport

	for _, u := range demoUsers(now) {
		exists, err := repos.Users.Exists(ctx, u.ID)
		if err != nil {
			return report, err
		}
		if exists {
			report.Skipped++
			continue
		}
		if err := repos.Users.Create(ctx, u); err != nil {
			return report, err
		}
		report.Users++
	}

	for _, p := range demoCatalog(now) {
		exists, err := repos.Products.Exists(ctx, p.ID)
		if err != nil {
			return report, err
		}
		if exists {
			report.Skipped++
			continue
		}
		if err := repos.Products.Create(ctx, p); err != nil {
			return report, err
		}
		report.Products++
	}

	return report, nil
}

func seedID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+key))
}

func demoUsers(now time.Time) []*domain.User {
	users := []struct {
		email string
		name  string
		tier  domain.SubscriptionTier
	}{
		{"demo@merch-nexus.local", "Demo Seller", domain.TierFree},
		{"pro@merch-nexus.local", "Pro Seller", domain.TierPro},
	}

	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		name := u.name
		out = append(out, &domain.User{
			ID:               seedID("user", u.email),
			Email:            u.email,
			FullName:         &name,
			SubscriptionTier: u.tier,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}
	return out
}

func demoCatalog(now time.Time) []*domain.Product {
	type item struct {
		asin     string
		title    string
		category string
		price    float64
		rating   float64
		level    domain.CompetitionLevel
		keywords []string
	}
	items := []item{
		{"B0DEMO0001", "Retro Sunset Cat T-Shirt", "Apparel", 19.99, 4.6, domain.CompetitionHigh, []string{"cat", "retro", "sunset"}},
		{"B0DEMO0002", "Funny Cat Dad Hoodie", "Apparel", 39.99, 4.3, domain.CompetitionMedium, []string{"cat", "dad", "funny"}},
		{"B0DEMO0003", "Minimalist Mountain Poster", "Home Decor", 14.50, 4.8, domain.CompetitionLow, []string{"mountain", "minimalist"}},
		{"B0DEMO0004", "Coffee First Ceramic Mug", "Kitchen", 12.00, 4.1, domain.CompetitionHigh, []string{"coffee", "mug"}},
		{"B0DEMO0005", "Vintage Camper Sticker Pack", "Accessories", 6.75, 3.9, domain.CompetitionLow, []string{"camping", "vintage", "sticker"}},
		{"B0DEMO0006", "100% Plant Powered Tote", "Accessories", 17.25, 4.4, domain.CompetitionMedium, []string{"vegan", "tote"}},
	}

	out := make([]*domain.Product, 0, len(items))
	for i, it := range items {
		// Stagger creation times so the newest-first order is stable.
		created := now.Add(-time.Duration(len(items)-i) * time.Minute)
		out = append(out, &domain.Product{
			ID:               seedID("product", it.asin),
			ASIN:             it.asin,
			Title:            it.title,
			Category:         it.category,
			Price:            it.price,
			Rating:           &it.rating,
			Keywords:         it.keywords,
			CompetitionLevel: &it.level,
			CreatedAt:        created,
			UpdatedAt:        created,
		})
	}
	return out
}
