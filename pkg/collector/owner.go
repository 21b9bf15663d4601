package collector

import (
	"context"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// resolveOwner walks one level of owner references to a stable logical
// owner name. Replica-management intermediaries (ReplicaSet behind a
// Deployment, ReplicationController behind a DeploymentConfig) are
// collapsed by one extra fetch; a failure during that extra hop is
// swallowed and the first-level name is used unchanged. Pods without an
// owner reference yield the empty string.
func (c *PodCollector) resolveOwner(ctx context.Context, pod *corev1.Pod) string {
	if len(pod.OwnerReferences) == 0 {
		return ""
	}

	owner := pod.OwnerReferences[0]
	name := owner.Name

	switch owner.Kind {
	case "ReplicaSet":
		rs, err := c.Client.AppsV1().ReplicaSets(pod.Namespace).Get(ctx, owner.Name, metav1.GetOptions{})
		if err != nil {
			slog.Debug("owner hop failed", "kind", owner.Kind, "name", owner.Name, "error", err)
			return name
		}
		if len(rs.OwnerReferences) > 0 {
			name = rs.OwnerReferences[0].Name
		}
	case "ReplicationController":
		rc, err := c.Client.CoreV1().ReplicationControllers(pod.Namespace).Get(ctx, owner.Name, metav1.GetOptions{})
		if err != nil {
			slog.Debug("owner hop failed", "kind", owner.Kind, "name", owner.Name, "error", err)
			return name
		}
		if len(rc.OwnerReferences) > 0 {
			name = rc.OwnerReferences[0].Name
		}
	}

	return name
}
