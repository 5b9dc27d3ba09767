package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function",
	}
	cmd.AddCommand(cmdLambdaHTTP())
	return cmd
}

func cmdLambdaHTTP() *cobra.Command {
	// cmd is the command for running the lambda-http mode.
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve API Gateway or function URL requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rtm, err := setup(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}

			logger.Info("lambda starting...", "payloadType", rtm.PayloadType())
			lambda.StartWithOptions(rtm.HandleEvent,
				lambda.WithContext(cmd.Context()))
			return nil
		},
	}

	return cmd
}
