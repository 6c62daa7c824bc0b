// Parses flags, configures logging and runs the build.
//
// The binary accepts the following global flags:
//
//	-q, --quiet     Only log warnings and errors.
//	-v, --verbose   Include source locations in log records.
//	-d, --debug     Enable debug logging.
//	-c, --config    Path to the optional YAML config file (default build.yaml).
//
// "build" is the default command, so `odyssey-build -o dist` stages the site
// into dist/. Flags override the config file, which overrides BUILD_*
// environment variables, which override the built-in defaults.
package cli
