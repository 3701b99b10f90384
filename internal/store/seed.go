package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mr-saberi/siite/internal/models"
)

type SeedOptions struct {
	AdminUsername   string
	AdminCredential models.Credential
	// Catalog also inserts the demo categories, products and gallery images.
	Catalog bool
}

// Seed populates an empty database. It does nothing once any user exists,
// so it is safe to call on every start.
func (s *Store) Seed(ctx context.Context, opts SeedOptions) (bool, error) {
	count, err := s.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if _, err := s.CreateUser(ctx, opts.AdminUsername, opts.AdminCredential, true); err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	slog.Info("Seeded admin user", "username", opts.AdminUsername)

	if !opts.Catalog {
		return true, nil
	}

	categoryIDs := make([]int64, 0, len(seedCategories))
	for i := range seedCategories {
		c, err := s.CreateCategory(ctx, &seedCategories[i])
		if err != nil {
			return false, fmt.Errorf("failed to seed category: %w", err)
		}
		categoryIDs = append(categoryIDs, c.ID)
	}

	for _, sp := range seedProducts {
		p := sp.product
		p.CategoryID = categoryIDs[sp.categoryIndex]
		if _, err := s.CreateProduct(ctx, &p); err != nil {
			return false, fmt.Errorf("failed to seed product: %w", err)
		}
	}

	for i := range seedGallery {
		if _, err := s.CreateGalleryImage(ctx, &seedGallery[i]); err != nil {
			return false, fmt.Errorf("failed to seed gallery image: %w", err)
		}
	}

	slog.Info("Seeded demo catalog",
		"categories", len(seedCategories),
		"products", len(seedProducts),
		"gallery", len(seedGallery),
	)
	return true, nil
}

func strPtr(s string) *string { return &s }

const unsplash = "https://images.unsplash.com/"

var seedCategories = []models.Category{
	{Name: "مبلمان نشیمن", NameEn: "Living Room", Image: unsplash + "photo-1493663284031-b7e3aefcae8e?auto=format&fit=crop&w=500&h=300&q=80"},
	{Name: "اتاق خواب", NameEn: "Bedroom", Image: unsplash + "photo-1556910585-09baa3a3c593?auto=format&fit=crop&w=500&h=300&q=80"},
	{Name: "غذاخوری", NameEn: "Dining Room", Image: unsplash + "photo-1565538810643-b5bdb714032a?auto=format&fit=crop&w=500&h=300&q=80"},
	{Name: "دفتر کار", NameEn: "Office", Image: unsplash + "photo-1524758631624-e2822e304c36?auto=format&fit=crop&w=500&h=300&q=80"},
	{Name: "مبلمان راحتی", NameEn: "Comfortable Furniture", Image: unsplash + "photo-1555041469-a586c61ea9bc?auto=format&fit=crop&w=500&h=300&q=80"},
	{Name: "مبلمان کلاسیک", NameEn: "Classic Furniture", Image: unsplash + "photo-1484101403633-562f891dc89a?auto=format&fit=crop&w=500&h=300&q=80"},
	{Name: "مبلمان سلطنتی", NameEn: "Royal Furniture", Image: unsplash + "photo-1616486338812-3dadae4b4ace?auto=format&fit=crop&w=500&h=300&q=80"},
	{Name: "مبلمان مدرن", NameEn: "Modern Furniture", Image: unsplash + "photo-1551298370-9d3d53740c72?auto=format&fit=crop&w=500&h=300&q=80"},
	{Name: "میز و صندلی", NameEn: "Tables & Chairs", Image: unsplash + "photo-1595428774223-ef52624120d2?auto=format&fit=crop&w=500&h=300&q=80"},
	{Name: "کابینت و قفسه", NameEn: "Cabinets & Shelves", Image: unsplash + "photo-1594286851359-8e5fb989eac6?auto=format&fit=crop&w=500&h=300&q=80"},
}

var seedProducts = []struct {
	categoryIndex int
	product       models.Product
}{
	{0, models.Product{Name: "مبل راحتی مدرن", NameEn: strPtr("Modern Sofa"), Description: "مبل راحتی سه نفره با طراحی مدرن و پارچه مخمل",
		Image: unsplash + "photo-1555041469-a586c61ea9bc?auto=format&fit=crop&w=600&h=400&q=80", Featured: true,
		Specifications: strPtr("ابعاد: 220×90×85 سانتی‌متر، جنس: چوب راش و پارچه مخمل، رنگ: طوسی"), Price: 12500000}},
	{2, models.Product{Name: "میز نهارخوری چوبی", NameEn: strPtr("Wooden Dining Table"), Description: "میز نهارخوری شش نفره از چوب گردو با پایه‌های فلزی",
		Image: unsplash + "photo-1538688525198-9b88f6f53126?auto=format&fit=crop&w=600&h=400&q=80", Featured: true,
		Specifications: strPtr("ابعاد: 180×90×76 سانتی‌متر، جنس: چوب گردو و پایه فلزی، رنگ: قهوه‌ای تیره"), Price: 8700000}},
	{3, models.Product{Name: "چراغ رومیزی مدرن", NameEn: strPtr("Modern Table Lamp"), Description: "چراغ رومیزی با پایه برنجی و حباب کتان سفید",
		Image: unsplash + "photo-1505693416388-ac5ce068fe85?auto=format&fit=crop&w=600&h=400&q=80", Featured: true,
		Specifications: strPtr("ارتفاع: 60 سانتی‌متر، قطر حباب: 30 سانتی‌متر، جنس: برنج و کتان، نوع لامپ: LED"), Price: 2500000}},
	{1, models.Product{Name: "تخت خواب دو نفره", NameEn: strPtr("Double Bed"), Description: "تخت خواب دو نفره با طراحی شیک و سرتخت پارچه‌ای",
		Image:          unsplash + "photo-1505693314120-0d443867891c?auto=format&fit=crop&w=600&h=400&q=80",
		Specifications: strPtr("ابعاد: 200×180×110 سانتی‌متر، جنس: چوب و MDF روکش دار، رنگ: کرم"), Price: 18900000}},
	{6, models.Product{Name: "مبلمان سلطنتی استیل", NameEn: strPtr("Royal Sofa Set"), Description: "مبلمان سلطنتی با پارچه مخمل و پایه‌های طلایی",
		Image: unsplash + "photo-1616486338812-3dadae4b4ace?auto=format&fit=crop&w=600&h=400&q=80", Featured: true,
		Specifications: strPtr("ست کامل شامل کاناپه سه نفره، دو کاناپه تک نفره و میز جلو مبلی، جنس: چوب گردو، روکش مخمل، رنگ: قرمز و طلایی"), Price: 32000000}},
	{5, models.Product{Name: "میز کنسول کلاسیک", NameEn: strPtr("Classic Console Table"), Description: "میز کنسول با طراحی کلاسیک و آینه بزرگ",
		Image:          unsplash + "photo-1616464916356-3a777b414d95?auto=format&fit=crop&w=600&h=400&q=80",
		Specifications: strPtr("ابعاد: 120×40×85 سانتی‌متر، جنس: چوب و MDF با روکش ونگه، آینه: 120×80 سانتی‌متر"), Price: 9800000}},
	{7, models.Product{Name: "میز تلویزیون مدرن", NameEn: strPtr("Modern TV Stand"), Description: "میز تلویزیون با طراحی مدرن و کشوهای متعدد",
		Image:          unsplash + "photo-1588854337221-4cf9fa96059c?auto=format&fit=crop&w=600&h=400&q=80",
		Specifications: strPtr("ابعاد: 180×45×50 سانتی‌متر، جنس: MDF هایگلاس، رنگ: سفید با درب‌های شیشه‌ای دودی"), Price: 7500000}},
	{8, models.Product{Name: "صندلی ناهارخوری مخملی", NameEn: strPtr("Velvet Dining Chair"), Description: "صندلی ناهارخوری با روکش مخمل و پایه‌های فلزی",
		Image:          unsplash + "photo-1579656381275-8a754f679e6e?auto=format&fit=crop&w=600&h=400&q=80",
		Specifications: strPtr("ارتفاع: 95 سانتی‌متر، عرض: 45 سانتی‌متر، جنس: پارچه مخمل و پایه فلزی، رنگ: سبز زمردی"), Price: 2800000}},
	{9, models.Product{Name: "کتابخانه چوبی", NameEn: strPtr("Wooden Bookshelf"), Description: "کتابخانه چوبی با طراحی ساده و کاربردی",
		Image:          unsplash + "photo-1594286851359-8e5fb989eac6?auto=format&fit=crop&w=600&h=400&q=80",
		Specifications: strPtr("ابعاد: 120×35×180 سانتی‌متر، جنس: چوب کاج، 5 طبقه قابل تنظیم، رنگ: قهوه‌ای روشن"), Price: 6500000}},
	{4, models.Product{Name: "مبل ال راحتی", NameEn: strPtr("L-Shaped Sofa"), Description: "مبل ال راحتی با روکش پارچه مقاوم و دوام بالا",
		Image: unsplash + "photo-1567016376408-0226e4d0c1ea?auto=format&fit=crop&w=600&h=400&q=80", Featured: true,
		Specifications: strPtr("ابعاد: 280×220×85 سانتی‌متر، جنس: چوب و پارچه مقاوم، رنگ: طوسی، قابلیت تبدیل به تختخواب"), Price: 15800000}},
	{3, models.Product{Name: "صندلی اداری ارگونومیک", NameEn: strPtr("Ergonomic Office Chair"), Description: "صندلی اداری با طراحی ارگونومیک برای راحتی بیشتر",
		Image:          unsplash + "photo-1596079890744-c1a0462d0975?auto=format&fit=crop&w=600&h=400&q=80",
		Specifications: strPtr("تنظیم ارتفاع: 45-55 سانتی‌متر، پشتی قابل تنظیم، دسته‌های قابل تنظیم، چرخ 360 درجه، جنس: مش و فوم، رنگ: مشکی"), Price: 4200000}},
}

var seedGallery = []models.GalleryImage{
	{Image: unsplash + "photo-1586023492125-27b2c045efd7?auto=format&fit=crop&w=1200&h=600&q=80", Alt: "نمایشگاه مبلمان پاشا"},
	{Image: unsplash + "photo-1567016432779-094069958ea5?auto=format&fit=crop&w=1200&h=600&q=80", Alt: "طراحی داخلی فروشگاه"},
	{Image: unsplash + "photo-1618221118493-9cfa1a1c00da?auto=format&fit=crop&w=1200&h=600&q=80", Alt: "مبلمان لوکس"},
}
