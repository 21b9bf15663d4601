package collector

import (
	"errors"
	"testing"

	routev1 "github.com/openshift/api/route/v1"
	routefake "github.com/openshift/client-go/route/clientset/versioned/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ktesting "k8s.io/client-go/testing"

	"github.com/imagewatch/lineage-exporter/pkg/snapshot"
)

func TestRouteCollector(t *testing.T) {
	client := routefake.NewSimpleClientset(
		&routev1.Route{
			ObjectMeta: metav1.ObjectMeta{
				Namespace: "team-a",
				Name:      "web",
				Annotations: map[string]string{
					"haproxy.router.openshift.io/timeout":      "30s",
					"haproxy.router.openshift.io/ip_whitelist": "10.0.0.0/8",
					"unrelated.io/owner":                       "team-a",
				},
			},
			Spec: routev1.RouteSpec{
				Host: "web.apps.example.com",
				To:   routev1.RouteTargetReference{Kind: "Service", Name: "web-svc"},
				TLS: &routev1.TLSConfig{
					Termination:                   routev1.TLSTerminationEdge,
					InsecureEdgeTerminationPolicy: routev1.InsecureEdgeTerminationPolicyRedirect,
				},
			},
		},
		&routev1.Route{
			ObjectMeta: metav1.ObjectMeta{Namespace: "team-b", Name: "plain"},
			Spec: routev1.RouteSpec{
				Host: "plain.apps.example.com",
				To:   routev1.RouteTargetReference{Kind: "Service", Name: "plain-svc"},
			},
		},
	)

	c := &RouteCollector{Client: client.RouteV1()}
	rows, err := c.Collect(t.Context())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]snapshot.RouteRow{}
	for _, row := range rows {
		byName[row.Name] = row
	}

	web := byName["web"]
	assert.Equal(t, "team-a", web.Namespace)
	assert.Equal(t, "web.apps.example.com", web.Host)
	assert.Equal(t, "web-svc", web.Service)
	assert.Equal(t, "edge", web.TLSTermination)
	assert.Equal(t, "Redirect", web.InsecureEdgeTermination)
	assert.Equal(t, "10.0.0.0/8", web.IPWhitelist)
	assert.Equal(t, map[string]string{
		"haproxy_timeout":      "30s",
		"haproxy_ip_whitelist": "10.0.0.0/8",
	}, web.Fields)

	plain := byName["plain"]
	assert.Empty(t, plain.TLSTermination)
	assert.Empty(t, plain.InsecureEdgeTermination)
	assert.Empty(t, plain.IPWhitelist)
	assert.Nil(t, plain.Fields)
}

func TestRouteCollectorListFailure(t *testing.T) {
	client := routefake.NewSimpleClientset()
	client.PrependReactor("list", "routes", func(ktesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})

	c := &RouteCollector{Client: client.RouteV1()}
	rows, err := c.Collect(t.Context())
	assert.Error(t, err)
	assert.Nil(t, rows)
}
