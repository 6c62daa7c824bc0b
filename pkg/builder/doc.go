// Package builder stages the static front-end into a deployable directory.
//
// A build is a fixed sequence of steps run in order: recreate the output
// directory, load the HTML template as strict UTF-8, replace the API key
// placeholder with the secret, write the result, copy the sidecar
// configuration file, copy the optional asset tree, and count what was
// produced. The first failing step ends the build; nothing is retried and
// nothing is rolled back beyond the wipe of the previous output.
//
// The secret is resolved by the caller (see package secrets) and passed in,
// so no step reads the environment.
//
// Example usage:
//
//	b := builder.New(cfg, secret, builder.WithLogger(logger))
//	result, err := b.Run()
//	if err != nil {
//	    return err
//	}
package builder
