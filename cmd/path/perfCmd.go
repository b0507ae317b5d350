package path

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/ephemeral/cmd/util"
	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for ephemeral servers",
		Long:    "Runs post, get, get-miss, delete and mixed benchmarks against a running server. All paths are created below /__perf and removed afterwards.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfPathPrefix = "/__perf"
	perfNumThreads = 10
	perfPathSpread = 100
	perfPathDepth  = 3
	perfSkip       = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. post,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "paths"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different paths to use for the tests"))
	key = "depth"
	perfTestCmd.Flags().Int(key, 3, util.WrapString("Number of fragments below the benchmark prefix of every path"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfPathSpread = viper.GetInt("paths")
	perfPathDepth = viper.GetInt("depth")
	perfNumThreads = viper.GetInt("threads")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	if perfPathSpread < 1 || perfPathDepth < 1 || perfNumThreads < 1 {
		return fmt.Errorf("paths, depth and threads must be at least 1")
	}
	return nil
}

// benchmark describes one perf test. setup runs before the timer starts,
// op is called with a running counter. stride consecutive calls share a path.
type benchmark struct {
	name   string
	setup  func(paths []string)
	op     func(path string, counter int) error
	stride int
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for ephemeral servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("staring tests...")

	postAll := func(paths []string) {
		for _, p := range paths {
			if err := pathClient.Post(p); err != nil {
				log.Printf("(setup) - error posting path: %v\n", err)
			}
		}
	}

	benchmarks := []benchmark{
		{
			name: "post",
			op: func(path string, _ int) error {
				return pathClient.Post(path)
			},
		},
		{
			name:  "get",
			setup: postAll,
			op: func(path string, _ int) error {
				_, _, err := pathClient.Get(path)
				return err
			},
		},
		{
			name: "get-miss",
			op: func(path string, _ int) error {
				_, _, err := pathClient.Get(path + "/missing")
				return err
			},
		},
		{
			// every delete hits an existing path, the following post restores it
			name:   "delete",
			setup:  postAll,
			stride: 2,
			op: func(path string, counter int) error {
				if counter%2 == 0 {
					return pathClient.Delete(path)
				}
				return pathClient.Post(path)
			},
		},
		{
			name:   "mixed",
			setup:  postAll,
			stride: 3,
			op: func(path string, counter int) (err error) {
				switch counter % 3 {
				case 0:
					err = pathClient.Post(path)
				case 1:
					_, _, err = pathClient.Get(path)
				case 2:
					err = pathClient.Delete(path)
				}
				return err
			},
		},
	}

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	for _, bm := range benchmarks {
		bm := bm
		result := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(bm.name) {
				return
			}

			// prepare paths
			paths := getPaths(bm.name)
			if bm.setup != nil {
				bm.setup(paths)
			}

			// cleanup
			b.Cleanup(func() {
				if err := pathClient.Delete(perfPathPrefix + "/" + bm.name); err != nil {
					log.Printf("(%s) - error deleting paths: %v\n", bm.name, err)
				}
			})

			b.SetParallelism(perfNumThreads)

			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					if err := bm.op(pathFor(paths, counter, bm.stride), counter); err != nil {
						log.Printf("(%s) - error: %v\n", bm.name, err)
					}
					counter++
				}
			})
		})

		results[bm.name] = result
		printResult(bm.name, result)
	}

	// remove the prefix node itself
	if err := pathClient.Delete(perfPathPrefix); err != nil {
		log.Printf("(cleanup) - error deleting %s: %v\n", perfPathPrefix, err)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// pathFor picks the path of the counter-th call, stride consecutive calls get the same path
func pathFor(paths []string, counter, stride int) string {
	if stride < 1 {
		stride = 1
	}
	return paths[(counter/stride)%len(paths)]
}

// getPaths creates the test paths of a benchmark, e.g. /__perf/get/17/1/2
func getPaths(test string) []string {
	paths := make([]string, perfPathSpread)
	for i := 0; i < perfPathSpread; i++ {
		var sb strings.Builder
		sb.WriteString(perfPathPrefix)
		sb.WriteString("/")
		sb.WriteString(test)
		sb.WriteString("/")
		sb.WriteString(strconv.Itoa(i))
		for d := 1; d < perfPathDepth; d++ {
			sb.WriteString("/")
			sb.WriteString(strconv.Itoa(d))
		}
		paths[i] = sb.String()
	}
	return paths
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"ReplyFormat", "Transport",
		"Threads", "Paths", "Depth",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Transport.RetryCount),
			strconv.Itoa(config.Transport.ConnectionsPerEndpoint),
			viper.GetString("reply-format"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfPathSpread),
			strconv.Itoa(perfPathDepth),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
