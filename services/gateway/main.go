// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
	"github.com/AleutianAI/ArchitectLocal/services/designer"
	"github.com/AleutianAI/ArchitectLocal/services/designer/risk"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/middleware"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/observability"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/routes"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/storage"
	"github.com/AleutianAI/ArchitectLocal/services/intent"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
	"github.com/AleutianAI/ArchitectLocal/services/llm"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "architect-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("designer-gateway")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	port := os.Getenv("ARCHITECT_PORT")
	if port == "" {
		port = "12250"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	// The knowledge graph is the one hard dependency: a gateway that cannot
	// validate a diagram must not serve.
	store, err := knowledge.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load the knowledge graph: %v", err)
	}
	slog.Info("knowledge graph loaded",
		"components", len(store.Components()),
		"patterns", len(store.Patterns()))

	log.Println("Configuring the LLM Client")
	llmClient, err := llm.NewFromEnv(os.Getenv("LLM_BACKEND_TYPE"))
	if err != nil {
		slog.Warn("LLM backend unavailable, intent parsing falls back to keyword detection",
			"error", err)
		llmClient = nil
	}
	if llmClient == nil && err == nil {
		slog.Info("LLM_BACKEND_TYPE not set. Running with keyword detection only.")
	}

	builder := designer.NewBuilder(store)
	assessor := risk.NewAssessor(store)
	analyzer := intent.NewAnalyzer(llmClient)

	opts := extensions.DefaultOptions()
	if dataDir := os.Getenv("ARCHITECT_DATA_DIR"); dataDir != "" {
		diskStore, err := storage.OpenWithPath(dataDir)
		if err != nil {
			log.Fatalf("Failed to open the diagram store at %s: %v", dataDir, err)
		}
		defer diskStore.Close()
		opts = opts.WithStore(diskStore)
		slog.Info("using persistent diagram store", "path", dataDir)
	}
	if usagePath := os.Getenv("ARCHITECT_USAGE_LOG"); usagePath != "" {
		usageLogger, err := extensions.NewFileUsageLogger(usagePath)
		if err != nil {
			slog.Warn("could not open the usage log, events will be discarded",
				"path", usagePath, "error", err)
		} else {
			defer usageLogger.Close()
			opts = opts.WithUsageLogger(usageLogger)
			slog.Info("usage logging enabled", "path", usagePath)
		}
	}
	if rawRPS := os.Getenv("RATE_LIMIT_RPS"); rawRPS != "" {
		rps, err := strconv.ParseFloat(rawRPS, 64)
		if err != nil || rps <= 0 {
			slog.Warn("RATE_LIMIT_RPS is invalid, rate limiting disabled", "value", rawRPS)
		} else {
			burst := int(2 * rps)
			opts = opts.WithRateLimiter(middleware.NewTokenBucketLimiter(rps, burst))
			slog.Info("rate limiting enabled", "rps", rps, "burst", burst)
		}
	}

	observability.InitMetrics()

	router := gin.Default()
	router.Use(otelgin.Middleware("designer-gateway"))

	routes.SetupRoutes(router, store, builder, assessor, analyzer, opts)
	log.Println("started up the container")

	log.Println("Starting the designer gateway on port ", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
