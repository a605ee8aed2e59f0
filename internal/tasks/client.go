package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client runs the background queues on a SQLite file of its own, next to the
// main database: ./bookfinder.db keeps its tasks in ./bookfinder-tasks.db.
type Client struct {
	backlite *backlite.Client
	db       *sql.DB
	path     string
	workers  int

	mu     sync.Mutex
	cancel context.CancelFunc // non-nil while workers run
}

// tasksDBPath derives the task database path from the main database path.
func tasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

func openTasksDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// Workers plus enqueuers from HTTP handlers and the scheduler
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// NewClient opens the task database, installs the backlite schema and
// registers queues. Queues cannot be added later; use Queues for the
// standard set.
func NewClient(mainDBPath string, cfg Config, queues ...backlite.Queue) (*Client, error) {
	cfg = cfg.withDefaults()
	path := tasksDBPath(mainDBPath)

	db, err := openTasksDB(path, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("open task database %s: %w", path, err)
	}

	bl, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          taskLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create task client: %w", err)
	}

	if err := bl.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("install task schema in %s: %w", path, err)
	}

	for _, q := range queues {
		bl.Register(q)
	}
	log.Printf("[TASK] Task database %s ready with %d queues", path, len(queues))

	return &Client{backlite: bl, db: db, path: path, workers: cfg.Workers}, nil
}

// Start launches the workers. Calling it again while running does nothing.
// Workers stop when ctx is done or Stop is called.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	log.Printf("[TASK] Starting %d workers", c.workers)
	c.backlite.Start(ctx)
}

// Stop waits for running tasks until ctx is done. It reports whether every
// worker finished in time. Stopping a client that never started succeeds.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel == nil {
		return true
	}
	defer cancel()

	if !c.backlite.Stop(ctx) {
		log.Printf("[TASK] Workers still busy at shutdown deadline")
		return false
	}
	log.Printf("[TASK] Workers stopped")
	return true
}

// Close releases the task database. Call after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Path is the task database file.
func (c *Client) Path() string {
	return c.path
}

// Enqueue adds a single task and returns its id.
func (c *Client) Enqueue(ctx context.Context, task backlite.Task) (string, error) {
	ids, err := c.backlite.Add(task).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", task.Config().Name, err)
	}
	return ids[0], nil
}

// Status reports a task's state. Tasks past their retention are TaskStatusNotFound.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.backlite.Status(ctx, taskID)
}

// taskLogger routes backlite's logs through the standard logger.
type taskLogger struct{}

func (taskLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (taskLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
