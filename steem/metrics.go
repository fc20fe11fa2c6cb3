package steem

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rpcRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sfrbot_steem_rpc_requests",
	Help: "Successful JSON-RPC calls, by method",
}, []string{"method"})

var rpcRequestsErrored = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sfrbot_steem_rpc_errors",
	Help: "Failed JSON-RPC calls, by method",
}, []string{"method"})
