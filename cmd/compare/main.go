package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"vrptw-route-service/internal/adapters/cluster"
	"vrptw-route-service/internal/adapters/distance"
	"vrptw-route-service/internal/adapters/generator"
	"vrptw-route-service/internal/config"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/ports"
	"vrptw-route-service/internal/services"

	"github.com/joho/godotenv"
)

// compare runs the single-route baseline and the clustered strategy on one
// dataset and prints both side by side.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	var (
		instancePath string
		k            int
		customers    int
		seed         int64
		workers      int
	)
	flag.StringVar(&instancePath, "instance", "", "YAML or JSON instance file; a dataset is generated when empty")
	flag.IntVar(&k, "k", 0, "number of clusters (defaults to the instance value or CLUSTER_COUNT)")
	flag.IntVar(&customers, "customers", cfg.NodeCount, "customers to generate")
	flag.Int64Var(&seed, "seed", cfg.RandomSeed, "random seed for generation and clustering")
	flag.IntVar(&workers, "workers", cfg.Workers, "parallel group solvers (0 = GOMAXPROCS)")
	flag.Parse()

	var nodes []domain.Node
	if instancePath != "" {
		in, loaded, err := loadInstance(instancePath)
		if err != nil {
			log.Fatal(err)
		}
		nodes = loaded
		if k == 0 {
			k = in.K
		}
	} else {
		opts := generator.DefaultOptions()
		opts.Customers = customers
		opts.Seed = seed
		nodes, err = generator.Generate(opts)
		if err != nil {
			log.Fatal(err)
		}
	}
	if k == 0 {
		k = cfg.ClusterCount
	}

	provider := distance.NewEuclideanProvider()
	var partitioner ports.Partitioner = cluster.NewKMeans(seed)
	if cfg.Partitioner == "distance" {
		partitioner = services.NewBandPartitioner(provider)
	}

	cmp, err := services.Compare(
		context.Background(),
		services.ClusteredRequest{Nodes: nodes, GroupCount: k, Workers: workers},
		provider,
		partitioner,
	)
	if cmp == nil {
		log.Fatal(err)
	}
	if err != nil {
		log.Printf("some groups failed: %v", err)
	}

	printComparison(os.Stdout, cmp, k)
}

func printComparison(w io.Writer, cmp *services.Comparison, k int) {
	customers := cmp.NodeCount - 1
	base := cmp.Baseline
	clu := cmp.Clustered

	fmt.Fprintf(w, "nodes=%d customers=%d clusters=%d\n\n", cmp.NodeCount, customers, k)

	fmt.Fprintln(w, "single route")
	fmt.Fprintf(w, "  route      %s\n", joinInts(base.Route))
	fmt.Fprintf(w, "  visited    %d/%d\n", base.Visited(), customers)
	fmt.Fprintf(w, "  distance   %.2f\n", base.TotalDistance)
	fmt.Fprintf(w, "  time       %.2f\n\n", base.TotalTime)

	fmt.Fprintln(w, "clustered")
	for _, g := range clu.Groups {
		if g.Err != nil {
			fmt.Fprintf(w, "  group %d    error: %v\n", g.Group, g.Err)
			continue
		}
		fmt.Fprintf(w, "  group %d    %s (dist=%.2f time=%.2f)\n", g.Group, joinInts(g.Route), g.TotalDistance, g.TotalTime)
	}
	fmt.Fprintf(w, "  visited    %d/%d\n", clu.Visited(), customers)
	fmt.Fprintf(w, "  distance   %.2f\n", clu.TotalDistance)
	fmt.Fprintf(w, "  time (sum) %.2f\n", clu.TotalTime)
	fmt.Fprintf(w, "  makespan   %.2f\n\n", clu.Makespan())

	fmt.Fprintf(w, "note: %s\n", cmp.Note)
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, " -> ")
}
