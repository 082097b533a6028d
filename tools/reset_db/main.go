package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"recommendation-service/config"
)

// Matches the schema AutoMigrate derives from model.Recommendation.
const createTableSQL = "CREATE TABLE `recommendation` (" +
	"`product_id` BIGINT NOT NULL COMMENT '商品ID'," +
	"`related_product_id` BIGINT NOT NULL COMMENT '被推荐商品ID'," +
	"`type_id` BIGINT NOT NULL DEFAULT 1 COMMENT '推荐类型(1向上销售,2交叉销售,3配件)'," +
	"`status` TINYINT(1) NOT NULL DEFAULT 0 COMMENT '是否启用'," +
	"PRIMARY KEY (`product_id`,`related_product_id`)" +
	") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

var seedRows = []struct {
	ProductID        int64
	RelatedProductID int64
	TypeID           int64
	Status           bool
}{
	{1, 2, 1, true},
	{1, 3, 2, true},
	{1, 4, 3, false},
	{2, 1, 1, true},
	{5, 9, 2, false},
}

func main() {
	seed := flag.Bool("seed", false, "insert demo recommendations after the reset")
	flag.Parse()

	// Load configuration (.env, then yaml with env overrides)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}
	cfg := config.LoadConfig()

	// Build DSN
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
		cfg.Database.Charset,
	)

	// Connect DB
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Database connection test failed: %v", err)
	}

	fmt.Println("Database connected successfully")
	fmt.Printf("Database: %s\n", cfg.Database.Database)

	// Confirm
	fmt.Print("\nWARNING: This operation will DROP and recreate table [recommendation]!\n")
	fmt.Print("Type 'YES' to confirm: ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "YES" {
		fmt.Println("Operation cancelled")
		return
	}

	// Drop and recreate the table
	fmt.Print("Dropping table recommendation... ")
	if _, err := db.Exec("DROP TABLE IF EXISTS `recommendation`"); err != nil {
		log.Fatalf("Failed: %v", err)
	}
	fmt.Println("Success")

	fmt.Print("Creating table recommendation... ")
	if _, err := db.Exec(createTableSQL); err != nil {
		log.Fatalf("Failed: %v", err)
	}
	fmt.Println("Success")

	// Optional demo data
	if *seed {
		fmt.Println("\nInserting demo recommendations...")
		for _, row := range seedRows {
			fmt.Printf("  (%d, %d) type=%d status=%t... ", row.ProductID, row.RelatedProductID, row.TypeID, row.Status)
			_, err := db.Exec(
				"INSERT INTO `recommendation` (`product_id`, `related_product_id`, `type_id`, `status`) VALUES (?, ?, ?, ?)",
				row.ProductID, row.RelatedProductID, row.TypeID, row.Status,
			)
			if err != nil {
				fmt.Printf("Failed: %v\n", err)
			} else {
				fmt.Println("Success")
			}
		}
	}

	fmt.Println("\nDatabase reset completed!")
	fmt.Println("Table recommendation recreated with an empty dataset")
	if *seed {
		fmt.Printf("%d demo rows inserted\n", len(seedRows))
	}
}
