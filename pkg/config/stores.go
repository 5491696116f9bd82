package config

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/marmos91/sharefs/internal/logger"
	"github.com/marmos91/sharefs/pkg/content"
	contentfs "github.com/marmos91/sharefs/pkg/content/fs"
	contentmemory "github.com/marmos91/sharefs/pkg/content/memory"
	contents3 "github.com/marmos91/sharefs/pkg/content/s3"
	"github.com/marmos91/sharefs/pkg/itemstore"
	itembadger "github.com/marmos91/sharefs/pkg/itemstore/badger"
	itemmemory "github.com/marmos91/sharefs/pkg/itemstore/memory"
	"github.com/mitchellh/mapstructure"
)

// badgerYAMLConfig is the badger section of an item store.
type badgerYAMLConfig struct {
	DBPath   string `mapstructure:"db_path"`
	InMemory bool   `mapstructure:"in_memory"`
}

// filesystemYAMLConfig is the filesystem section of a content store.
type filesystemYAMLConfig struct {
	Path string `mapstructure:"path"`
}

// s3YAMLConfig is the s3 section of a content store.
type s3YAMLConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	KeyPrefix       string `mapstructure:"key_prefix"`
	ForcePathStyle  bool   `mapstructure:"force_path_style"`
	MaxRetries      int    `mapstructure:"max_retries"`
}

// CreateItemStore creates the sandbox item store selected by cfg.Type.
func CreateItemStore(ctx context.Context, cfg *ItemStoreConfig) (itemstore.Store, error) {
	switch cfg.Type {
	case "memory":
		return itemmemory.NewMemoryItemStore(), nil
	case "badger":
		return createBadgerItemStore(ctx, cfg.Badger)
	default:
		return nil, fmt.Errorf("unknown item store type: %q", cfg.Type)
	}
}

func createBadgerItemStore(ctx context.Context, options map[string]any) (itemstore.Store, error) {
	var badgerCfg badgerYAMLConfig
	if err := mapstructure.Decode(options, &badgerCfg); err != nil {
		return nil, fmt.Errorf("invalid badger config: %w", err)
	}

	if badgerCfg.DBPath == "" && !badgerCfg.InMemory {
		return nil, fmt.Errorf("badger item store: db_path is required")
	}

	store, err := itembadger.NewBadgerItemStore(ctx, itembadger.BadgerItemStoreConfig{
		DBPath:   badgerCfg.DBPath,
		InMemory: badgerCfg.InMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create badger item store: %w", err)
	}

	logger.Debug("Badger item store opened: path=%s in_memory=%t", badgerCfg.DBPath, badgerCfg.InMemory)
	return store, nil
}

// CreateContentStore creates the sandbox content store selected by cfg.Type.
func CreateContentStore(ctx context.Context, cfg *ContentStoreConfig) (content.Store, error) {
	switch cfg.Type {
	case "memory":
		return contentmemory.NewMemoryContentStore(), nil
	case "filesystem":
		return createFilesystemContentStore(cfg.Filesystem)
	case "s3":
		return createS3ContentStore(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown content store type: %q", cfg.Type)
	}
}

func createFilesystemContentStore(options map[string]any) (content.Store, error) {
	var fsCfg filesystemYAMLConfig
	if err := mapstructure.Decode(options, &fsCfg); err != nil {
		return nil, fmt.Errorf("invalid filesystem config: %w", err)
	}

	if fsCfg.Path == "" {
		return nil, fmt.Errorf("filesystem content store: path is required")
	}

	store, err := contentfs.NewFSContentStore(fsCfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem content store: %w", err)
	}
	return store, nil
}

func createS3ContentStore(ctx context.Context, options map[string]any) (content.Store, error) {
	var s3Cfg s3YAMLConfig
	if err := mapstructure.Decode(options, &s3Cfg); err != nil {
		return nil, fmt.Errorf("invalid s3 config: %w", err)
	}

	if s3Cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 content store: bucket is required")
	}
	if s3Cfg.Region == "" {
		return nil, fmt.Errorf("s3 content store: region is required")
	}

	client, err := newS3Client(ctx, s3Cfg)
	if err != nil {
		return nil, err
	}

	store, err := contents3.NewS3ContentStore(ctx, contents3.S3ContentStoreConfig{
		Client:    client,
		Bucket:    s3Cfg.Bucket,
		KeyPrefix: s3Cfg.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 content store: %w", err)
	}

	logger.Info("S3 content store initialized: bucket=%s, region=%s, prefix=%s",
		s3Cfg.Bucket, s3Cfg.Region, s3Cfg.KeyPrefix)

	return store, nil
}

// newS3Client builds an S3 client from the default credential chain, or from
// static keys when both are set. A custom endpoint (MinIO, Localstack)
// implies path-style addressing.
func newS3Client(ctx context.Context, s3Cfg s3YAMLConfig) (*s3.Client, error) {
	loadOptions := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(s3Cfg.Region),
	}

	if s3Cfg.AccessKeyID != "" && s3Cfg.SecretAccessKey != "" {
		loadOptions = append(loadOptions, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3Cfg.AccessKeyID, s3Cfg.SecretAccessKey, ""),
		))
	}

	maxAttempts := s3Cfg.MaxRetries
	if maxAttempts == 0 {
		maxAttempts = 10
	}
	loadOptions = append(loadOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxAttempts
			o.MaxBackoff = 20 * time.Second
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3Cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3Cfg.Endpoint)
			o.UsePathStyle = true
		}
		if s3Cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	}), nil
}
