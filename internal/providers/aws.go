package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"nathanbeddoewebdev/reseed/internal/domain"
	"nathanbeddoewebdev/reseed/internal/platform/providers"
	"nathanbeddoewebdev/reseed/internal/services/auth"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-2"

// ec2API is the subset of *ec2.Client used by AWSProvider.
type ec2API interface {
	DescribeImages(ctx context.Context, in *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
	DescribeInstances(ctx context.Context, in *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	TerminateInstances(ctx context.Context, in *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
	RunInstances(ctx context.Context, in *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
}

// AWSProvider implements domain.Provider on top of the EC2 API.
type AWSProvider struct {
	client ec2API
	region string
}

// NewAWSProvider creates an AWSProvider using the given EC2 client.
func NewAWSProvider(client ec2API, region string) *AWSProvider {
	return &AWSProvider{client: client, region: region}
}

// RegisterAWS registers the AWS provider factory with the global registry.
//
// Credentials stored with "reseed auth login aws" take precedence; otherwise
// the SDK default chain (environment, shared config, instance role) is used.
func RegisterAWS() {
	Register("aws", func(ctx context.Context, store auth.Store, opts Options) (domain.Provider, error) {
		region := opts.Region
		if region == "" {
			region = DefaultRegion
		}

		loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
		if id, secret, ok := storedCredentials(store); ok {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(id, secret, ""),
			))
		}

		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}

		return NewAWSProvider(ec2.NewFromConfig(cfg), region), nil
	})
}

func storedCredentials(store auth.Store) (string, string, bool) {
	if store == nil {
		return "", "", false
	}
	spec := providers.Lookup("aws")
	if spec == nil || len(spec.Keys) != 2 {
		return "", "", false
	}

	id, err := store.GetToken(spec.KeychainKey(spec.Keys[0]))
	if err != nil || id == "" {
		return "", "", false
	}
	secret, err := store.GetToken(spec.KeychainKey(spec.Keys[1]))
	if err != nil || secret == "" {
		return "", "", false
	}
	return id, secret, true
}

func (p *AWSProvider) GetDisplayName() string {
	return "AWS EC2 (" + p.region + ")"
}

// RootDeviceName returns the root device name declared by the AMI.
func (p *AWSProvider) RootDeviceName(ctx context.Context, imageID string) (string, error) {
	out, err := p.client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		ImageIds: []string{imageID},
	})
	if err != nil {
		return "", wrapAPIError("describe image "+imageID, err)
	}
	if len(out.Images) == 0 {
		return "", fmt.Errorf("%w: image %q: %w", domain.ErrConfiguration, imageID, domain.ErrNotFound)
	}

	device := aws.ToString(out.Images[0].RootDeviceName)
	if device == "" {
		return "", fmt.Errorf("%w: image %q reports no root device name", domain.ErrProvider, imageID)
	}
	return device, nil
}

// ListInstances pages through every instance in the region.
func (p *AWSProvider) ListInstances(ctx context.Context) ([]domain.Instance, error) {
	var instances []domain.Instance

	pager := ec2.NewDescribeInstancesPaginator(p.client, &ec2.DescribeInstancesInput{})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, wrapAPIError("describe instances", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, toDomainInstance(inst))
			}
		}
	}

	return instances, nil
}

// TerminateInstances requests termination of all ids in one call.
func (p *AWSProvider) TerminateInstances(ctx context.Context, ids []string) ([]domain.InstanceState, error) {
	out, err := p.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: ids,
	})
	if err != nil {
		return nil, wrapAPIError("terminate instances", err)
	}

	states := make([]domain.InstanceState, 0, len(out.TerminatingInstances))
	for _, change := range out.TerminatingInstances {
		state := domain.InstanceState{ID: aws.ToString(change.InstanceId)}
		if change.CurrentState != nil {
			state.State = string(change.CurrentState.Name)
		}
		states = append(states, state)
	}
	return states, nil
}

// RunInstances launches instances with the boot script attached as user
// data and the ownership tag applied at creation.
func (p *AWSProvider) RunInstances(ctx context.Context, opts domain.LaunchOpts) ([]string, error) {
	input := &ec2.RunInstancesInput{
		ImageId:             aws.String(opts.ImageID),
		InstanceType:        types.InstanceType(opts.InstanceType),
		MinCount:            aws.Int32(opts.MinCount),
		MaxCount:            aws.Int32(opts.MaxCount),
		BlockDeviceMappings: blockDeviceMappings(opts.Volumes),
		TagSpecifications: []types.TagSpecification{{
			ResourceType: types.ResourceTypeInstance,
			Tags: []types.Tag{{
				Key:   aws.String(opts.Tag.Key),
				Value: aws.String(opts.Tag.Value),
			}},
		}},
	}
	// The EC2 API expects user data base64-encoded.
	if opts.UserData != "" {
		input.UserData = aws.String(base64.StdEncoding.EncodeToString([]byte(opts.UserData)))
	}

	out, err := p.client.RunInstances(ctx, input)
	if err != nil {
		return nil, wrapAPIError("run instances", err)
	}

	ids := make([]string, 0, len(out.Instances))
	for _, inst := range out.Instances {
		if id := aws.ToString(inst.InstanceId); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func blockDeviceMappings(volumes []domain.VolumeSpec) []types.BlockDeviceMapping {
	mappings := make([]types.BlockDeviceMapping, 0, len(volumes))
	for _, v := range volumes {
		mappings = append(mappings, types.BlockDeviceMapping{
			DeviceName: aws.String(v.Device),
			Ebs: &types.EbsBlockDevice{
				VolumeSize: aws.Int32(v.SizeGB),
			},
		})
	}
	return mappings
}

// toDomainInstance converts an EC2 instance. Tag entries with nil pointers
// are kept with empty fields so discovery can report and skip them.
func toDomainInstance(inst types.Instance) domain.Instance {
	out := domain.Instance{ID: aws.ToString(inst.InstanceId)}
	if inst.State != nil {
		out.State = string(inst.State.Name)
	}
	for _, t := range inst.Tags {
		out.Tags = append(out.Tags, domain.Tag{
			Key:   aws.ToString(t.Key),
			Value: aws.ToString(t.Value),
		})
	}
	return out
}

// wrapAPIError classifies an EC2 error into the domain sentinels.
func wrapAPIError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AuthFailure", "UnauthorizedOperation", "InvalidClientTokenId", "OptInRequired":
			return fmt.Errorf("%w: %w: %s: %w", domain.ErrProvider, domain.ErrUnauthorized, op, err)
		case "RequestLimitExceeded", "Throttling":
			return fmt.Errorf("%w: %w: %s: %w", domain.ErrProvider, domain.ErrRateLimited, op, err)
		case "InvalidInstanceID.NotFound", "InvalidAMIID.NotFound", "InvalidAMIID.Unavailable":
			return fmt.Errorf("%w: %w: %s: %w", domain.ErrProvider, domain.ErrNotFound, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrProvider, op, err)
}
