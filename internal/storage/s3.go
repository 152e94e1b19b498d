package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"mendel/internal/model"
)

const (
	speciesPrefix = "species/"
	genomesPrefix = "genomes/"
	lineagePrefix = "lineage/"
)

// S3Config holds explicit construction parameters. Credentials fall back to
// the default AWS chain when AccessKeyID is empty.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. MinIO
	Prefix          string // optional key prefix inside the bucket
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

// objectAPI is the subset of *s3.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store keeps one JSON object per record in a single bucket.
type S3Store struct {
	cfg S3Config

	mu     sync.RWMutex
	client objectAPI
}

func NewS3Store(cfg S3Config) *S3Store {
	return &S3Store{cfg: cfg}
}

func newS3StoreWithClient(cfg S3Config, client objectAPI) *S3Store {
	return &S3Store{cfg: cfg, client: client}
}

func (s *S3Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Bucket == "" {
		return errors.New("s3 bucket is required")
	}
	if s.client != nil {
		return nil
	}

	region := s.cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if s.cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.cfg.AccessKeyID, s.cfg.SecretAccessKey, s.cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = s.cfg.PathStyle
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
		}
	})
	return nil
}

func (s *S3Store) key(prefix, name string) string {
	return s.cfg.Prefix + prefix + name + ".json"
}

func (s *S3Store) getClient() (objectAPI, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.client == nil {
		return nil, errNotInitialized
	}
	return s.client, nil
}

func (s *S3Store) put(ctx context.Context, key string, payload []byte) error {
	client, err := s.getClient()
	if err != nil {
		return err
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) get(ctx context.Context, key string) ([]byte, bool, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, false, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	payload, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return payload, true, nil
}

func (s *S3Store) list(ctx context.Context, prefix string) ([]string, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}
	full := s.cfg.Prefix + prefix
	var keys []string
	var token *string
	for {
		out, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.cfg.Bucket),
			Prefix:            aws.String(full),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", full, err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, ".json") {
				keys = append(keys, key)
			}
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		return keys, nil
	}
}

func (s *S3Store) SaveSpecies(ctx context.Context, species model.SpeciesRecord) error {
	payload, err := EncodeSpecies(species)
	if err != nil {
		return err
	}
	return s.put(ctx, s.key(speciesPrefix, species.Name), payload)
}

func (s *S3Store) GetSpecies(ctx context.Context, name string) (model.SpeciesRecord, bool, error) {
	payload, ok, err := s.get(ctx, s.key(speciesPrefix, name))
	if err != nil || !ok {
		return model.SpeciesRecord{}, ok, err
	}
	species, err := DecodeSpecies(payload)
	if err != nil {
		return model.SpeciesRecord{}, false, fmt.Errorf("decode species %s: %w", name, err)
	}
	return species, true, nil
}

func (s *S3Store) ListSpecies(ctx context.Context) ([]model.SpeciesRecord, error) {
	keys, err := s.list(ctx, speciesPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]model.SpeciesRecord, 0, len(keys))
	for _, key := range keys {
		payload, ok, err := s.get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		species, err := DecodeSpecies(payload)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		out = append(out, species)
	}
	sortSpecies(out)
	return out, nil
}

func (s *S3Store) SaveGenome(ctx context.Context, genome model.GenomeRecord) error {
	payload, err := EncodeGenome(genome)
	if err != nil {
		return err
	}
	return s.put(ctx, s.key(genomesPrefix, genome.ID), payload)
}

func (s *S3Store) GetGenome(ctx context.Context, id string) (model.GenomeRecord, bool, error) {
	payload, ok, err := s.get(ctx, s.key(genomesPrefix, id))
	if err != nil || !ok {
		return model.GenomeRecord{}, ok, err
	}
	genome, err := DecodeGenome(payload)
	if err != nil {
		return model.GenomeRecord{}, false, fmt.Errorf("decode genome %s: %w", id, err)
	}
	return genome, true, nil
}

func (s *S3Store) ListGenomes(ctx context.Context, species string) ([]model.GenomeRecord, error) {
	keys, err := s.list(ctx, genomesPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]model.GenomeRecord, 0, len(keys))
	for _, key := range keys {
		payload, ok, err := s.get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		genome, err := DecodeGenome(payload)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		if species != "" && genome.Species != species {
			continue
		}
		out = append(out, genome)
	}
	sortGenomes(out)
	return out, nil
}

func (s *S3Store) DeleteGenome(ctx context.Context, id string) error {
	client, err := s.getClient()
	if err != nil {
		return err
	}
	key := s.key(genomesPrefix, id)
	if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) SaveLineage(ctx context.Context, lineage model.LineageRecord) error {
	payload, err := EncodeLineage(lineage)
	if err != nil {
		return err
	}
	return s.put(ctx, s.key(lineagePrefix, lineage.ChildID), payload)
}

func (s *S3Store) GetLineage(ctx context.Context, childID string) (model.LineageRecord, bool, error) {
	payload, ok, err := s.get(ctx, s.key(lineagePrefix, childID))
	if err != nil || !ok {
		return model.LineageRecord{}, ok, err
	}
	lineage, err := DecodeLineage(payload)
	if err != nil {
		return model.LineageRecord{}, false, fmt.Errorf("decode lineage %s: %w", childID, err)
	}
	return lineage, true, nil
}
