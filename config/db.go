package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-booking-api/models"
	"hotel-booking-api/utils"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// EnvOrDefault returns the trimmed env value or def when unset.
func EnvOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := EnvOrDefault("DB_USER", "root")
	pass := EnvOrDefault("DB_PASS", "")
	host := EnvOrDefault("DB_HOST", "127.0.0.1")
	port := EnvOrDefault("DB_PORT", "3306")
	dbName := EnvOrDefault("DB_NAME", "hotel_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

// ConnectDatabase opens the MySQL connection, runs migrations in parent->child
// order and seeds the catalogs when empty.
func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      EnvOrDefault("APP_ENV", "development") != "production",
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Booking{},
		&models.SpaService{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("failed to marshal seed data: %v", err)
	}
	return b
}

// SeedDatabase inserts the default admin account and the room and spa
// catalogs. Every block is count-guarded so restarts never duplicate rows.
func SeedDatabase() {
	var adminCount int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)
	if adminCount == 0 {
		hash, err := utils.HashPassword(EnvOrDefault("ADMIN_PASSWORD", "admin123"))
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.User{
				FirstName: "Hotel",
				LastName:  "Administrator",
				Email:     EnvOrDefault("ADMIN_EMAIL", "admin@hotel.local"),
				Password:  hash,
				Role:      models.RoleAdmin,
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	var roomCount int64
	DB.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := []models.Room{
			{
				Name:        "Standard Room",
				Category:    models.CategoryStandard,
				Price:       1200,
				Capacity:    2,
				Description: "Comfortable room with all essential amenities for a pleasant stay.",
				Amenities:   mustJSON([]string{"Wi-Fi", "Air conditioning", "TV", "Mini-bar"}),
				IsAvailable: true,
			},
			{
				Name:        "Luxury Suite",
				Category:    models.CategoryLuxury,
				Price:       2500,
				Capacity:    2,
				Description: "Spacious suite with a panoramic city view and extra services.",
				Amenities:   mustJSON([]string{"Wi-Fi", "Air conditioning", "TV", "Mini-bar", "Safe", "Jacuzzi"}),
				IsAvailable: true,
			},
			{
				Name:        "Family Room",
				Category:    models.CategoryFamily,
				Price:       1800,
				Capacity:    4,
				Description: "Roomy accommodation fitting the whole family comfortably.",
				Amenities:   mustJSON([]string{"Wi-Fi", "Air conditioning", "TV", "Mini-bar", "Baby cot"}),
				IsAvailable: true,
			},
			{
				Name:        "Presidential Suite",
				Category:    models.CategoryPresidential,
				Price:       5000,
				Capacity:    2,
				Description: "The most luxurious suite in the hotel with personal service.",
				Amenities:   mustJSON([]string{"Wi-Fi", "Air conditioning", "TV", "Mini-bar", "Safe", "Jacuzzi", "Sauna", "Terrace"}),
				IsAvailable: true,
			},
		}
		if err := DB.Create(&rooms).Error; err != nil {
			log.Printf("warning: failed to seed rooms: %v", err)
		} else {
			log.Println("Rooms seeded")
		}
	}

	var spaCount int64
	DB.Model(&models.SpaService{}).Count(&spaCount)
	if spaCount == 0 {
		catalog := StaticSpaCatalog()
		if err := DB.Create(&catalog).Error; err != nil {
			log.Printf("warning: failed to seed spa services: %v", err)
		} else {
			log.Println("Spa services seeded")
		}
	}
}

// StaticSpaCatalog is the built-in spa catalog. It doubles as seed data and
// as the read fallback when the store is unreachable.
func StaticSpaCatalog() []models.SpaService {
	return []models.SpaService{
		{
			ID:          1,
			Title:       "Classic Massage",
			Description: "Relaxing full-body massage to release tension and improve circulation.",
			Duration:    "60 min",
			Price:       800,
			Category:    "massage",
			IsAvailable: true,
		},
		{
			ID:          2,
			Title:       "Aromatherapy",
			Description: "Essential-oil treatment improving physical and emotional well-being.",
			Duration:    "45 min",
			Price:       700,
			Category:    "aromatherapy",
			IsAvailable: true,
		},
		{
			ID:          3,
			Title:       "Seaweed Body Wrap",
			Description: "Detoxifying wrap that improves skin condition.",
			Duration:    "90 min",
			Price:       1200,
			Category:    "body",
			IsAvailable: true,
		},
		{
			ID:          4,
			Title:       "Fish Pedicure",
			Description: "Natural skin peeling performed by Garra Rufa fish.",
			Duration:    "30 min",
			Price:       500,
			Category:    "exotic",
			IsAvailable: true,
		},
		{
			ID:          5,
			Title:       "Full Relaxation Package",
			Description: "Massage, aromatherapy and hydrotherapy combined in one session.",
			Duration:    "120 min",
			Price:       2000,
			Category:    "complex",
			IsAvailable: true,
		},
	}
}
