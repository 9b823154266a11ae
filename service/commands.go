package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"postviewer/app/config"
	"postviewer/app/models"
	"postviewer/app/repositories"
	"postviewer/app/services"

	"go.uber.org/zap"
)

var osExit = os.Exit

// HandleBackendCommand handles `backend` subcommands and returns an exit code.
func HandleBackendCommand(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string) int {
	if len(args) < 1 {
		printBackendHelp()
		osExit(1)
		return 1
	}
	if cfg == nil {
		cfg = config.Default()
	}
	dbPath, backupDir := cfg.Backend.DBPath, cfg.Backend.BackupDir

	cmd := args[0]
	switch cmd {
	case "serve":
		if err := RunBackendServer(ctx, cfg, logger); err != nil {
			fmt.Fprintf(output(), "Backend server error: %v\n", err)
			return 1
		}
		return 0
	case "clean":
		return clean(dbPath)
	case "init":
		return initDb(dbPath)
	case "backup":
		return backup(dbPath, backupDir)
	case "restore":
		if len(args) < 2 {
			fmt.Fprintln(output(), "Error: backup file path required for restore")
			osExit(1)
			return 1
		}
		return restore(dbPath, args[1])
	case "seed":
		if len(args) < 2 {
			fmt.Fprintln(output(), "Error: seed file path required for seed")
			osExit(1)
			return 1
		}
		return seed(dbPath, args[1])
	case "list":
		page := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				fmt.Fprintf(output(), "Error: invalid page %q\n", args[1])
				osExit(1)
				return 1
			}
			page = n
		}
		return list(cfg, dbPath, page)
	case "delete":
		if len(args) < 2 {
			fmt.Fprintln(output(), "Error: post id required for delete")
			osExit(1)
			return 1
		}
		return deletePost(dbPath, models.ID(args[1]))
	case "help":
		printBackendHelp()
		return 0
	default:
		fmt.Fprintf(output(), "Unknown backend command: %s\n\n", cmd)
		printBackendHelp()
		osExit(1)
		return 1
	}
}

// printBackendHelp prints help for backend subcommands.
func printBackendHelp() {
	helpText := `Usage: postviewer backend <command>

Commands:
  serve                           Run the blog API the viewer reads from
  clean                           Clean the blog database
  init                            Initialize a new empty database
  backup                          Create a backup of the database
  restore <file>                  Restore database from backup
  seed <file.yaml>                Load posts and comments from a YAML file
  list [page]                     List stored posts, ten per page
  delete <id>                     Delete a post and its comments
  help                            Display this help message
`
	fmt.Fprintln(output(), helpText)
}

// clean removes the database.
func clean(dbPath string) int {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(output(), "Database is already clean (does not exist)")
		return 0
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(output(), "Operation cancelled")
		return 1
	}

	if err := os.RemoveAll(dbPath); err != nil {
		fmt.Fprintf(output(), "Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Fprintln(output(), "Database cleaned successfully")
	return 0
}

// initDb initializes a new empty database.
func initDb(dbPath string) int {
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Fprintln(output(), "Database already exists. Use 'clean' first if you want to reinitialize.")
		return 1
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Fprintf(output(), "Failed to create database directory: %v\n", err)
		return 1
	}

	db, err := repositories.Open(dbPath)
	if err != nil {
		fmt.Fprintf(output(), "Failed to initialize database: %v\n", err)
		return 1
	}
	defer db.Close()

	fmt.Fprintln(output(), "Database initialized successfully")
	return 0
}

// backup creates a backup of the database.
func backup(dbPath, backupDir string) int {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(output(), "No database exists to backup")
		return 1
	}

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		fmt.Fprintf(output(), "Failed to create backup directory: %v\n", err)
		return 1
	}

	db, err := repositories.Open(dbPath)
	if err != nil {
		fmt.Fprintf(output(), "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Fprintf(output(), "Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := repositories.Backup(db, f); err != nil {
		fmt.Fprintf(output(), "Failed to backup database: %v\n", err)
		return 1
	}

	fmt.Fprintf(output(), "Database backed up successfully to %s\n", backupFile)
	return 0
}

// restore restores the database from a backup.
func restore(dbPath, backupFile string) int {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Fprintf(output(), "Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Fprintf(output(), "Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Fprintf(output(), "Backup file is empty: %s\n", backupFile)
		return 1
	}

	if _, err := os.Stat(dbPath); err == nil {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Fprintln(output(), "Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(dbPath); err != nil {
			fmt.Fprintf(output(), "Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Fprintf(output(), "Failed to create database directory: %v\n", err)
		return 1
	}

	db, err := repositories.Open(dbPath)
	if err != nil {
		fmt.Fprintf(output(), "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Fprintf(output(), "Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := repositories.Restore(db, f); err != nil {
		fmt.Fprintf(output(), "Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Fprintln(output(), "Database restored successfully")
	return 0
}

// seed loads a YAML seed file into the database, creating it if needed.
func seed(dbPath, seedFile string) int {
	f, err := os.Open(seedFile)
	if err != nil {
		fmt.Fprintf(output(), "Failed to open seed file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Fprintf(output(), "Failed to create database directory: %v\n", err)
		return 1
	}

	db, err := repositories.Open(dbPath)
	if err != nil {
		fmt.Fprintf(output(), "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	postRepo := repositories.NewBadgerPostRepository(db)
	commentRepo := repositories.NewBadgerCommentRepository(db)
	result, err := services.Seed(f,
		services.NewPostService(postRepo, commentRepo),
		services.NewCommentService(commentRepo, postRepo),
	)
	if err != nil {
		fmt.Fprintf(output(), "Failed to seed database: %v\n", err)
		return 1
	}

	fmt.Fprintf(output(), "Seeded %d posts and %d comments\n", len(result.Posts), result.Comments)
	for _, id := range result.Posts {
		fmt.Fprintf(output(), "  /writing/%s  /anonymous/%s\n", id, id)
	}
	return 0
}

const listPageSize = 10

// list prints one page of stored posts in creation order.
func list(cfg *config.Config, dbPath string, page int) int {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(output(), "No database exists to list")
		return 1
	}
	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(output(), "Invalid configuration: %v\n", err)
		return 1
	}

	db, err := repositories.Open(dbPath)
	if err != nil {
		fmt.Fprintf(output(), "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	postRepo := repositories.NewBadgerPostRepository(db)
	commentRepo := repositories.NewBadgerCommentRepository(db)
	posts, err := services.NewPostService(postRepo, commentRepo).ListPosts(page, listPageSize)
	if err != nil {
		fmt.Fprintf(output(), "Failed to list posts: %v\n", err)
		return 1
	}

	if len(posts) == 0 {
		fmt.Fprintln(output(), "No posts found")
		return 0
	}
	for _, post := range posts {
		fmt.Fprintf(output(), "%6s  %-16s  %s\n", post.ID, post.DisplayDate(loc), post.Title)
	}
	return 0
}

// deletePost removes a post and its comments after confirmation.
func deletePost(dbPath string, id models.ID) int {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(output(), "No database exists")
		return 1
	}

	db, err := repositories.Open(dbPath)
	if err != nil {
		fmt.Fprintf(output(), "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	postRepo := repositories.NewBadgerPostRepository(db)
	commentRepo := repositories.NewBadgerCommentRepository(db)
	svc := services.NewPostService(postRepo, commentRepo)

	post, err := svc.GetPost(id)
	if errors.Is(err, repositories.ErrNotFound) {
		fmt.Fprintf(output(), "Post %s does not exist\n", id)
		return 1
	}
	if err != nil {
		fmt.Fprintf(output(), "Failed to read post: %v\n", err)
		return 1
	}

	if !confirm(fmt.Sprintf("Delete post %s %q and its comments?", id, post.Title)) {
		fmt.Fprintln(output(), "Operation cancelled")
		return 1
	}
	if err := svc.DeletePost(id); err != nil {
		fmt.Fprintf(output(), "Failed to delete post: %v\n", err)
		return 1
	}
	fmt.Fprintf(output(), "Post %s deleted\n", id)
	return 0
}
