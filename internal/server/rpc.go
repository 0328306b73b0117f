// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"
)

// adminService exposes ProviderHealth and CacheStats as JSON-RPC 2.0
// methods, read-only mirrors of GET /providers and GET /cache/stats.
type adminService struct {
	server *Server
}

// ProviderHealthArgs is intentionally empty; the RPC takes no parameters.
type ProviderHealthArgs struct{}

// ProviderHealthReply wraps the provider status list for gorilla/rpc's
// (http *http.Request, args *T, reply *T) method signature.
type ProviderHealthReply struct {
	Providers []providerStatus `json:"providers"`
}

// ProviderHealth mirrors GET /providers over JSON-RPC.
func (a *adminService) ProviderHealth(r *http.Request, args *ProviderHealthArgs, reply *ProviderHealthReply) error {
	reply.Providers = a.server.providerStatuses()
	return nil
}

// CacheStatsArgs is intentionally empty; the RPC takes no parameters.
type CacheStatsArgs struct{}

// CacheStatsReply wraps the cache statistics snapshot.
type CacheStatsReply struct {
	cacheStatsResponse
}

// CacheStats mirrors GET /cache/stats over JSON-RPC.
func (a *adminService) CacheStats(r *http.Request, args *CacheStatsArgs, reply *CacheStatsReply) error {
	reply.cacheStatsResponse = a.server.cacheStats()
	return nil
}
