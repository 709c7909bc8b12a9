// Package clientcli provides a client library for interacting with todo servers.
//
// It supports list, create, update, delete, and attachment-upload operations
// with bearer-token authentication. The package includes profile-based
// configuration for managing connections to multiple servers.
//
// # Basic Usage
//
// Create a client and list todos:
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:8080",
//		Token:    "your-bearer-token",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	todos, err := client.List(ctx)
//
// # Profile Configuration
//
// Use profiles to manage multiple server configurations:
//
//	configFile, err := clientcli.LoadConfigFile("~/.todovault/config.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := clientcli.ConfigFromProfile(profile)
//	client, err := clientcli.New(cfg)
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatTodoList(os.Stdout, todos)
package clientcli
