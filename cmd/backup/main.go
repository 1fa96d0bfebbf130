// Command backup sichert die Session-Datenbank per pg_dump nach S3 und
// behält nur die neuesten Backups.
package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"prereview/storage"
)

type BackupConfig struct {
	PostgresHost     string        `envconfig:"POSTGRES_HOST" required:"true"`
	PostgresUser     string        `envconfig:"POSTGRES_USER" required:"true"`
	PostgresPassword string        `envconfig:"POSTGRES_PASSWORD" required:"true"`
	PostgresDB       string        `envconfig:"POSTGRES_DB" default:"prereview"`
	BackupBucket     string        `envconfig:"BACKUP_S3_BUCKET" required:"true"`
	BackupEndpoint   string        `envconfig:"BACKUP_S3_ENDPOINT" required:"true"`
	BackupAccessKey  string        `envconfig:"BACKUP_S3_ACCESS_KEY" required:"true"`
	BackupSecretKey  string        `envconfig:"BACKUP_S3_SECRET_KEY" required:"true"`
	BackupRegion     string        `envconfig:"BACKUP_S3_REGION" required:"true"`
	KeepBackups      int           `envconfig:"KEEP_BACKUPS" default:"4"`
	Timeout          time.Duration `envconfig:"BACKUP_TIMEOUT" default:"10m"`
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starte Backup-Prozess...")

	var cfg BackupConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatal("Fehler beim Laden der Konfiguration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Backup fehlgeschlagen", zap.Error(err))
	}
	logger.Info("Backup-Prozess erfolgreich abgeschlossen.")
}

func run(ctx context.Context, cfg BackupConfig, logger *zap.Logger) error {
	dump, err := createDump(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create dump: %w", err)
	}

	client, err := storage.NewS3Client(ctx, storage.S3Config{
		Endpoint:  cfg.BackupEndpoint,
		Region:    cfg.BackupRegion,
		AccessKey: cfg.BackupAccessKey,
		SecretKey: cfg.BackupSecretKey,
	})
	if err != nil {
		return fmt.Errorf("create s3 client: %w", err)
	}
	bucket := &storage.BackupBucket{Client: client, Bucket: cfg.BackupBucket, Logger: logger}

	key := backupKey(time.Now())
	if err := bucket.Upload(ctx, key, dump); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	logger.Info("Backup hochgeladen", zap.String("bucket", cfg.BackupBucket), zap.String("key", key), zap.Int("bytes", len(dump)))

	deleted, err := bucket.Rotate(ctx, cfg.KeepBackups)
	if err != nil {
		return fmt.Errorf("rotate backups: %w", err)
	}
	logger.Info("Rotation abgeschlossen", zap.Strings("deleted", deleted))
	return nil
}

func backupKey(now time.Time) string {
	return fmt.Sprintf("sessions-%s.sql.gz", now.UTC().Format("2006-01-02T15-04-05Z"))
}

func createDump(ctx context.Context, cfg BackupConfig) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "pg_dump",
		"-h", cfg.PostgresHost,
		"-U", cfg.PostgresUser,
		"-d", cfg.PostgresDB,
		"-t", "sessions",
		"-w", // Passwort kommt über PGPASSWORD
	)
	cmd.Env = append(os.Environ(), fmt.Sprintf("PGPASSWORD=%s", cfg.PostgresPassword))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := compress(&buf, stdout); err != nil {
		_ = cmd.Wait()
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func compress(dst io.Writer, src io.Reader) error {
	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		return err
	}
	return gz.Close()
}
