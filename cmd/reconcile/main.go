package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/yzh77/plaza_go_server/config"
	"github.com/yzh77/plaza_go_server/internal/database"
	"github.com/yzh77/plaza_go_server/internal/repository"
	"github.com/yzh77/plaza_go_server/internal/service"
)

var (
	dryRun = flag.Bool("dry-run", true, "Dry run mode, don't actually write corrections")
	postID = flag.Int64("post-id", 0, "Reconcile a single post (0 = all posts)")
)

func main() {
	flag.Parse()

	log.Println("Starting counter reconcile...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	reconciler := service.NewReconcileService(postRepo, commentRepo, likeRepo)

	fixed := 0
	if *postID > 0 {
		changed, err := reconciler.ReconcilePost(*postID, *dryRun)
		if err != nil {
			log.Fatalf("Failed to reconcile post %d: %v", *postID, err)
		}
		if changed {
			fixed = 1
		}
	} else {
		fixed, err = reconciler.ReconcileAll(*dryRun)
		if err != nil {
			log.Fatalf("Failed to reconcile: %v", err)
		}
	}

	log.Println(strings.Repeat("=", 60))
	log.Printf("Posts with drifted counters: %d", fixed)
	if *dryRun {
		log.Println("DRY RUN MODE - No corrections were written")
		log.Println("Run with -dry-run=false to apply corrections")
	} else {
		log.Println("Reconcile completed")
	}
	log.Println(strings.Repeat("=", 60))
}
