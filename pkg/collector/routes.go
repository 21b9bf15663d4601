package collector

import (
	"context"
	"log/slog"
	"strings"

	routev1client "github.com/openshift/client-go/route/clientset/versioned/typed/route/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	apperrors "github.com/imagewatch/lineage-exporter/pkg/errors"
	"github.com/imagewatch/lineage-exporter/pkg/snapshot"
)

const (
	haproxyAnnotationPrefix = "haproxy.router.openshift.io/"
	ipWhitelistAnnotation   = haproxyAnnotationPrefix + "ip_whitelist"
	haproxyFieldPrefix      = "haproxy_"
)

// RouteCollector produces informational rows about externally exposed
// routes. It is independent of the lineage pipeline.
type RouteCollector struct {
	Client routev1client.RouteV1Interface
}

// Collect fetches all routes and renders one row per route. Router
// annotations under the haproxy prefix become additional fields with the
// annotation remainder transliterated into a label-safe name.
func (c *RouteCollector) Collect(ctx context.Context) ([]snapshot.RouteRow, error) {
	routes, err := c.Client.Routes(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to list routes", err)
	}

	rows := make([]snapshot.RouteRow, 0, len(routes.Items))
	for i := range routes.Items {
		route := &routes.Items[i]

		row := snapshot.RouteRow{
			Namespace:   route.Namespace,
			Name:        route.Name,
			Host:        route.Spec.Host,
			Service:     route.Spec.To.Name,
			IPWhitelist: route.Annotations[ipWhitelistAnnotation],
		}
		if route.Spec.TLS != nil {
			row.TLSTermination = string(route.Spec.TLS.Termination)
			row.InsecureEdgeTermination = string(route.Spec.TLS.InsecureEdgeTerminationPolicy)
		}

		for key, value := range route.Annotations {
			rest, ok := strings.CutPrefix(key, haproxyAnnotationPrefix)
			if !ok {
				continue
			}
			if row.Fields == nil {
				row.Fields = make(map[string]string)
			}
			row.Fields[haproxyFieldPrefix+sanitizeLabelName(rest)] = value
		}

		rows = append(rows, row)
	}

	slog.Info("collected routes", "routes", len(rows))
	return rows, nil
}
