package ai

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"

	"lol-coach/internal/config"
)

// ModelInvoker is the seam between the coordinator and the model service.
// Tests inject canned responses through it.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, modelID string, body []byte) ([]byte, error)
}

// BedrockInvoker invokes models through the Bedrock runtime. When a role ARN
// is configured, calls are signed with assumed-role credentials.
type BedrockInvoker struct {
	client *bedrockruntime.Client
	logger zerolog.Logger
}

func NewBedrockInvoker(cfg *config.Config, logger zerolog.Logger) (*BedrockInvoker, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	if cfg.BedrockRoleARN != "" {
		stsClient := sts.NewFromConfig(awsCfg)
		provider := stscreds.NewAssumeRoleProvider(stsClient, cfg.BedrockRoleARN, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = "lol-coach"
		})
		awsCfg.Credentials = aws.NewCredentialsCache(provider)
		logger.Info().Str("role_arn", cfg.BedrockRoleARN).Msg("bedrock using assumed role")
	}

	return &BedrockInvoker{
		client: bedrockruntime.NewFromConfig(awsCfg),
		logger: logger,
	}, nil
}

func (b *BedrockInvoker) InvokeModel(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		b.logger.Error().Err(err).Str("model_id", modelID).Msg("model invocation failed")
		return nil, fmt.Errorf("invoke model %s: %w", modelID, err)
	}
	return out.Body, nil
}
