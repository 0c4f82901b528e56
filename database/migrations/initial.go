package migrations

import (
	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_clients_table", &CreateClientsTable{})
	migration.Register("20260301000002_create_products_table", &CreateProductsTable{})
	migration.Register("20260301000003_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20260301000004_create_quotes_tables", &CreateQuotesTables{})
	migration.Register("20260301000005_create_contact_messages_table", &CreateContactMessagesTable{})
	migration.Register("20260301000006_create_website_tables", &CreateWebsiteTables{})
}

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

type CreateClientsTable struct{}

func (m *CreateClientsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Client{})
}

func (m *CreateClientsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("clients")
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Unit{}, &models.Service{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories", "units", "services")
}

type CreateQuotesTables struct{}

func (m *CreateQuotesTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Quote{}, &models.QuoteItem{})
}

func (m *CreateQuotesTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("quote_items", "quotes")
}

type CreateContactMessagesTable struct{}

func (m *CreateContactMessagesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ContactMessage{})
}

func (m *CreateContactMessagesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("contact_messages")
}

type CreateWebsiteTables struct{}

func (m *CreateWebsiteTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.WebsiteSection{}, &models.PublicService{})
}

func (m *CreateWebsiteTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("public_services", "website_sections")
}
