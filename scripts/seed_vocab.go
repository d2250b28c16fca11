package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"language_gems_backend/internal/model"

	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// 词库种子脚本：从 YAML 词表文件导入词条并建一个词汇表
// 用法: go run scripts/seed_vocab.go -file scripts/seed_data.yaml -dsn "user:pass@tcp(127.0.0.1:3306)/language_gems?charset=utf8mb4&parseTime=true"

type seedFile struct {
	ListName string `yaml:"list_name"`
	Language string `yaml:"language"`
	Words    []struct {
		Word        string `yaml:"word"`
		Translation string `yaml:"translation"`
		Category    string `yaml:"category"`
		Subcategory string `yaml:"subcategory"`
	} `yaml:"words"`
}

func main() {
	file := flag.String("file", "scripts/seed_data.yaml", "词表 YAML 文件")
	dsn := flag.String("dsn", "", "MySQL DSN")
	creator := flag.Uint("creator", 1, "词汇表归属的教师用户 ID")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing -dsn")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal("read seed file: ", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		log.Fatal("parse seed file: ", err)
	}
	if len(seed.Words) == 0 {
		log.Fatal("seed file has no words")
	}

	db, err := gorm.Open(mysql.Open(*dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("connect database: ", err)
	}

	var itemIDs []string
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, w := range seed.Words {
			item := model.VocabularyItem{
				Word:        w.Word,
				Translation: w.Translation,
				Language:    seed.Language,
				Category:    w.Category,
				Subcategory: w.Subcategory,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			itemIDs = append(itemIDs, item.ID)
		}

		list := model.VocabularyList{
			Name:      seed.ListName,
			Language:  seed.Language,
			CreatorID: *creator,
		}
		if err := tx.Create(&list).Error; err != nil {
			return err
		}

		links := make([]model.VocabularyListItem, 0, len(itemIDs))
		for i, id := range itemIDs {
			links = append(links, model.VocabularyListItem{
				ListID:       list.ID,
				VocabularyID: id,
				Position:     i,
			})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}

		fmt.Printf("seeded %d words into list %s (%s)\n", len(itemIDs), list.Name, list.ID)
		return nil
	})
	if err != nil {
		log.Fatal("seed failed: ", err)
	}
}
