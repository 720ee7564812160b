package service

import (
	"fmt"
	"sort"
	"strings"
)

// definitions and access methods for the known cluster service types

type Type string

const Unknown Type = "unknown"

type Service struct {
	Type Type

	// names accepted on the command line, first entry is the
	// canonical service name used in API paths
	Matches []string

	// common role types, included in command help via Usage
	RoleTypes []string
}

type serviceMap map[Type]Service

var services serviceMap = make(serviceMap)

// register a service type
func RegisterService(s Service) {
	services[s.Type] = s
}

func init() {
	RegisterService(Service{
		Type:      "hdfs",
		Matches:   []string{"hdfs"},
		RoleTypes: []string{"NAMENODE", "DATANODE", "JOURNALNODE", "FAILOVERCONTROLLER"},
	})
	RegisterService(Service{
		Type:      "yarn",
		Matches:   []string{"yarn", "mr2", "mapreduce"},
		RoleTypes: []string{"RESOURCEMANAGER", "NODEMANAGER", "JOBHISTORY"},
	})
	RegisterService(Service{
		Type:      "hbase",
		Matches:   []string{"hbase"},
		RoleTypes: []string{"MASTER", "REGIONSERVER"},
	})
	RegisterService(Service{
		Type:      "hive",
		Matches:   []string{"hive"},
		RoleTypes: []string{"HIVESERVER2", "HIVEMETASTORE"},
	})
	RegisterService(Service{
		Type:      "impala",
		Matches:   []string{"impala"},
		RoleTypes: []string{"IMPALAD", "STATESTORE", "CATALOGSERVER"},
	})
	RegisterService(Service{
		Type:      "zookeeper",
		Matches:   []string{"zookeeper", "zk"},
		RoleTypes: []string{"SERVER"},
	})
	RegisterService(Service{
		Type:      "kafka",
		Matches:   []string{"kafka"},
		RoleTypes: []string{"KAFKA_BROKER"},
	})
	RegisterService(Service{
		Type:      "oozie",
		Matches:   []string{"oozie"},
		RoleTypes: []string{"OOZIE_SERVER"},
	})
	RegisterService(Service{
		Type:      "hue",
		Matches:   []string{"hue"},
		RoleTypes: []string{"HUE_SERVER", "HUE_LOAD_BALANCER"},
	})
	RegisterService(Service{
		Type:      "spark",
		Matches:   []string{"spark", "spark_on_yarn"},
		RoleTypes: []string{"SPARK_YARN_HISTORY_SERVER"},
	})
}

func (t Type) String() (name string) {
	return string(t)
}

// return the service type by iterating over all the names registered
// by services. matching is not case sensitive.
func Parse(name string) Type {
	name = strings.ToLower(name)
	for t, v := range services {
		for _, m := range v.Matches {
			if m == name {
				return t
			}
		}
	}
	return Unknown
}

// sorted canonical names of the registered services, for error and
// help messages
func Names() (names []string) {
	for t := range services {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return
}

// Usage returns one line per registered service with its common role
// types, for help output. The live set always comes from the API.
func Usage() string {
	var b strings.Builder
	for _, name := range Names() {
		s := services[Type(name)]
		fmt.Fprintf(&b, "  %s: %s\n", name, strings.Join(s.RoleTypes, ", "))
	}
	return b.String()
}
