package devops

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type DBEntry struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GetDSN builds a go-sql-driver/mysql DSN. Hosts without a port get 3306.
func (db DBEntry) GetDSN(dbname string) string {
	host := db.Host
	if !strings.Contains(host, ":") {
		host = host + ":3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC", db.Username, db.Password, host, dbname)
}

type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// LoadDSN reads the YAML database list stored in the SSM parameter paramName
// and returns the DSN for the entry called name.
func LoadDSN(ctx context.Context, paramName, name string) (string, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}
	return loadDSN(ctx, ssm.NewFromConfig(cfg), paramName, name)
}

func loadDSN(ctx context.Context, client ssmAPI, paramName, name string) (string, error) {
	entries, err := loadDatabases(ctx, client, paramName)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.Name, name) {
			return entry.GetDSN(entry.Name), nil
		}
	}
	return "", fmt.Errorf("database %q not found in parameter %s", name, paramName)
}

func loadDatabases(ctx context.Context, client ssmAPI, paramName string) ([]DBEntry, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter %s: %w", paramName, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s is empty", paramName)
	}

	var entries []DBEntry
	if err := yaml.Unmarshal([]byte(*out.Parameter.Value), &entries); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return entries, nil
}
